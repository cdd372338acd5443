package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// cliConfig is the runtime configuration of the scms command. Sources apply
// in order: defaults, the TOML file named by -config (or SCMS_CONFIG),
// SCMS_* environment variables, then flags.
type cliConfig struct {
	LogLevel      string `toml:"log_level"`
	Slot          string `toml:"slot"`
	SlotPath      string `toml:"slot_path"`
	SlotKey       string `toml:"slot_key"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPrefix   string `toml:"redis_prefix"`
	Directory     string `toml:"directory"`
	Listen        string `toml:"listen"`
	Metrics       bool   `toml:"metrics"`
	Audit         bool   `toml:"audit"`
	LoginThrottle bool   `toml:"login_throttle"`
	VerifyRestore bool   `toml:"verify_restore"`
	Production    bool   `toml:"production"`
}

const (
	slotMemory = "memory"
	slotFile   = "file"
	slotRedis  = "redis"
	slotSQLite = "sqlite"
)

func defaultCLIConfig() cliConfig {
	return cliConfig{
		LogLevel:    "warn",
		Slot:        slotFile,
		SlotPath:    defaultSlotPath(),
		SlotKey:     "scms_user",
		RedisPrefix: "scms",
		Listen:      "127.0.0.1:8080",
	}
}

func defaultSlotPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".scms_session.json"
	}
	return filepath.Join(dir, "scms", "session.json")
}

func bindFlags(cfg *cliConfig, configPath *string) *flag.FlagSet {
	fs := flag.NewFlagSet("scms", flag.ContinueOnError)
	fs.StringVar(configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "session slot backend: memory, file, redis or sqlite")
	fs.StringVar(&cfg.SlotPath, "slot-path", cfg.SlotPath, "file or sqlite path of the session slot")
	fs.StringVar(&cfg.SlotKey, "slot-key", cfg.SlotKey, "session slot key")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis slot and login throttle")
	fs.StringVar(&cfg.RedisPrefix, "redis-prefix", cfg.RedisPrefix, "redis key prefix")
	fs.StringVar(&cfg.Directory, "directory", cfg.Directory, "account directory file (.toml or .json); demo accounts when empty")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "serve: listen address")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "enable metrics and GET /metrics")
	fs.BoolVar(&cfg.Audit, "audit", cfg.Audit, "log audit events")
	fs.BoolVar(&cfg.LoginThrottle, "login-throttle", cfg.LoginThrottle, "enable the redis login throttle")
	fs.BoolVar(&cfg.VerifyRestore, "verify-restore", cfg.VerifyRestore, "check restored sessions against the directory")
	fs.BoolVar(&cfg.Production, "production", cfg.Production, "use the hardened configuration")
	return fs
}

// loadConfig resolves the configuration and returns the remaining
// arguments (the subcommand and its own arguments).
func loadConfig(args []string, getenv func(string) string) (cliConfig, []string, error) {
	var (
		scratch    = defaultCLIConfig()
		configPath string
	)
	fs := bindFlags(&scratch, &configPath)
	if err := fs.Parse(args); err != nil {
		return cliConfig{}, nil, err
	}
	if configPath == "" {
		configPath = getenv("SCMS_CONFIG")
	}

	cfg := defaultCLIConfig()
	if configPath != "" {
		if err := loadConfigFile(&cfg, configPath); err != nil {
			return cliConfig{}, nil, err
		}
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return cliConfig{}, nil, err
	}

	var ignored string
	final := bindFlags(&cfg, &ignored)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if err := final.Set(f.Name, f.Value.String()); err != nil && setErr == nil {
			setErr = err
		}
	})
	if setErr != nil {
		return cliConfig{}, nil, setErr
	}

	if err := cfg.validate(); err != nil {
		return cliConfig{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func loadConfigFile(cfg *cliConfig, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func applyEnv(cfg *cliConfig, getenv func(string) string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"SCMS_LOG_LEVEL", &cfg.LogLevel},
		{"SCMS_SLOT", &cfg.Slot},
		{"SCMS_SLOT_PATH", &cfg.SlotPath},
		{"SCMS_SLOT_KEY", &cfg.SlotKey},
		{"SCMS_REDIS_ADDR", &cfg.RedisAddr},
		{"SCMS_REDIS_PREFIX", &cfg.RedisPrefix},
		{"SCMS_DIRECTORY", &cfg.Directory},
		{"SCMS_LISTEN", &cfg.Listen},
	}
	for _, s := range strs {
		if v := getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"SCMS_METRICS", &cfg.Metrics},
		{"SCMS_AUDIT", &cfg.Audit},
		{"SCMS_LOGIN_THROTTLE", &cfg.LoginThrottle},
		{"SCMS_VERIFY_RESTORE", &cfg.VerifyRestore},
		{"SCMS_PRODUCTION", &cfg.Production},
	}
	for _, b := range bools {
		v := getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = parsed
	}
	return nil
}

func (c cliConfig) validate() error {
	switch c.Slot {
	case slotMemory:
	case slotFile, slotSQLite:
		if strings.TrimSpace(c.SlotPath) == "" {
			return fmt.Errorf("slot %s requires slot_path", c.Slot)
		}
	case slotRedis:
		if c.RedisAddr == "" {
			return errors.New("slot redis requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown slot backend %q", c.Slot)
	}
	if (c.LoginThrottle || c.Production) && c.RedisAddr == "" {
		return errors.New("login throttle requires redis_addr")
	}
	if c.Production && c.Directory == "" {
		return errors.New("production requires a directory file")
	}
	return nil
}
