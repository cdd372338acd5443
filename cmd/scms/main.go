// Command scms drives the Smart Classroom session authority from a shell.
//
// Usage:
//
//	scms [flags] <command> [args]
//
// Commands:
//
//	login [-email addr]       authenticate; the secret is read without echo
//	logout                    end the session and clear the slot
//	whoami                    print the signed-in account
//	can <role> <resource>     answer a permission gate lookup
//	nav                       list the navigation open to the session
//	report                    print the security report as JSON
//	hash-secret               print an argon2id hash for a directory file
//	serve                     run the HTTP dashboard gateway
//
// Each run restores the session from the configured slot first, so the file,
// redis and sqlite backends carry a login across invocations.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

type streams struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, streams{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		err: os.Stderr,
	})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, getenv func(string) string, s streams) int {
	cfg, rest, err := loadConfig(args, getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(s.err, "scms:", err)
		return 2
	}
	if len(rest) == 0 {
		fmt.Fprintln(s.err, "scms: missing command (login, logout, whoami, can, nav, report, hash-secret, serve)")
		return 2
	}

	name, cmdArgs := rest[0], rest[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(s.err, "scms: unknown command %q\n", name)
		return 2
	}

	logger := newLogger(cfg.LogLevel, s.err)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(s.err, "scms:", err)
		return 1
	}
	defer a.Close()

	if err := cmd(ctx, a, cmdArgs, s); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(s.err, "scms:", err)
			return 2
		}
		fmt.Fprintf(s.err, "scms %s: %v\n", name, err)
		return 1
	}
	return 0
}
