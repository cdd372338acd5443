package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	scmsauth "github.com/MrEthical07/scmsauth"
	"github.com/MrEthical07/scmsauth/directory"
	"github.com/MrEthical07/scmsauth/session"
)

// app owns the authority and the backends it was built on.
type app struct {
	cfg       cliConfig
	logger    *slog.Logger
	authority *scmsauth.Authority
	closers   []func()
}

func newApp(ctx context.Context, cfg cliConfig, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
	}

	slot, err := a.openSlot(ctx, rdb)
	if err != nil {
		a.Close()
		return nil, err
	}

	authCfg := scmsauth.DefaultConfig()
	if cfg.Production {
		authCfg = scmsauth.HardenedConfig()
	}
	authCfg.Session.Key = cfg.SlotKey
	authCfg.Session.RedisPrefix = cfg.RedisPrefix
	authCfg.Session.VerifyAgainstDirectory = authCfg.Session.VerifyAgainstDirectory || cfg.VerifyRestore
	authCfg.Security.EnableLoginThrottle = authCfg.Security.EnableLoginThrottle || cfg.LoginThrottle
	authCfg.Metrics.Enabled = cfg.Metrics
	authCfg.Metrics.EnableLatencyHistograms = cfg.Metrics
	authCfg.Audit.Enabled = authCfg.Audit.Enabled || cfg.Audit

	b := scmsauth.New().
		WithConfig(authCfg).
		WithSlot(slot).
		WithLogger(logger).
		WithAuditSink(scmsauth.NewSlogSink(logger))
	if rdb != nil {
		b = b.WithRedis(rdb)
	}
	if cfg.Directory != "" {
		dir, err := directory.LoadFile(cfg.Directory)
		if err != nil {
			a.Close()
			return nil, err
		}
		b = b.WithDirectory(dir)
	}

	authority, err := b.Build()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.authority = authority
	a.closers = append(a.closers, authority.Close)

	// every run starts from whatever the slot holds
	authority.RestoreSession(ctx)
	return a, nil
}

func (a *app) openSlot(ctx context.Context, rdb *redis.Client) (session.Slot, error) {
	switch a.cfg.Slot {
	case slotMemory:
		return session.NewMemorySlot(), nil
	case slotFile:
		return session.NewFileSlot(a.cfg.SlotPath), nil
	case slotRedis:
		return session.NewRedisSlot(rdb, a.cfg.RedisPrefix, a.cfg.SlotKey, 0), nil
	case slotSQLite:
		if err := os.MkdirAll(filepath.Dir(a.cfg.SlotPath), 0o700); err != nil {
			return nil, err
		}
		db, err := session.OpenSQLite(ctx, a.cfg.SlotPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		return session.NewSQLiteSlot(db, a.cfg.SlotKey), nil
	default:
		return nil, errors.New("unknown slot backend " + a.cfg.Slot)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
