package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type command func(ctx context.Context, a *app, args []string, s streams) error

var commands = map[string]command{
	"login":       cmdLogin,
	"logout":      cmdLogout,
	"whoami":      cmdWhoami,
	"can":         cmdCan,
	"nav":         cmdNav,
	"report":      cmdReport,
	"hash-secret": cmdHashSecret,
	"serve":       cmdServe,
}

type usageError string

func (e usageError) Error() string { return string(e) }

var errDenied = errors.New("denied")

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

// readSecret reads a secret without echo when stdin is a terminal, and as
// one line otherwise.
func readSecret(s streams, prompt string) (string, error) {
	fmt.Fprint(s.err, prompt)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		b, err := readPassword(fd)
		fmt.Fprintln(s.err)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(s)
}

func readLine(s streams) (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func cmdLogin(ctx context.Context, a *app, args []string, s streams) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(s.err)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	if *email == "" {
		fmt.Fprint(s.err, "Email: ")
		line, err := readLine(s)
		if err != nil {
			return err
		}
		*email = strings.TrimSpace(line)
	}
	secret, err := readSecret(s, "Password: ")
	if err != nil {
		return err
	}

	sess, err := a.authority.Authenticate(ctx, *email, secret)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "signed in as %s (%s)\n", sess.Account.Name, sess.Account.Role)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string, s streams) error {
	if err := a.authority.EndSession(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "signed out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string, s streams) error {
	acc, ok := a.authority.CurrentAccount()
	if !ok {
		fmt.Fprintln(s.out, "anonymous")
		return nil
	}
	return writeJSON(s.out, acc)
}

func cmdCan(_ context.Context, a *app, args []string, s streams) error {
	if len(args) != 2 {
		return usageError("usage: can <role> <resource>")
	}
	if !a.authority.IsPermitted(args[0], args[1]) {
		fmt.Fprintln(s.out, "denied")
		return errDenied
	}
	fmt.Fprintln(s.out, "allowed")
	return nil
}

func cmdNav(_ context.Context, a *app, _ []string, s streams) error {
	if !a.authority.IsAuthenticated() {
		return errors.New("not signed in")
	}
	for _, item := range a.authority.Navigation() {
		fmt.Fprintf(s.out, "%-12s %s\n", item.Label, item.Path)
	}
	return nil
}

func cmdReport(_ context.Context, a *app, _ []string, s streams) error {
	return writeJSON(s.out, a.authority.SecurityReport())
}

func cmdHashSecret(_ context.Context, a *app, _ []string, s streams) error {
	secret, err := readSecret(s, "Secret: ")
	if err != nil {
		return err
	}
	hash, err := a.authority.HashSecret(secret)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, hash)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
