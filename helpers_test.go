package scmsauth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/scmsauth/session"
)

const demoSecret = "password123"

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, rdb
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testPasswordConfig keeps argon2 cheap in tests.
func testPasswordConfig() PasswordConfig {
	return PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Password = testPasswordConfig()
	return cfg
}

func buildAuthority(t *testing.T, b *Builder) *Authority {
	t.Helper()
	a, err := b.WithLogger(quietLogger()).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func newTestAuthority(t *testing.T, slot session.Slot) *Authority {
	t.Helper()
	return buildAuthority(t, New().WithConfig(testConfig()).WithSlot(slot))
}

// faultySlot wraps a slot and fails selected operations.
type faultySlot struct {
	session.Slot
	failLoad  bool
	failStore bool
	failClear bool
}

func (s *faultySlot) Load(ctx context.Context) ([]byte, error) {
	if s.failLoad {
		return nil, fmt.Errorf("%w: injected load failure", session.ErrBackendUnavailable)
	}
	return s.Slot.Load(ctx)
}

func (s *faultySlot) Store(ctx context.Context, data []byte) error {
	if s.failStore {
		return fmt.Errorf("%w: injected store failure", session.ErrBackendUnavailable)
	}
	return s.Slot.Store(ctx, data)
}

func (s *faultySlot) Clear(ctx context.Context) error {
	if s.failClear {
		return fmt.Errorf("%w: injected clear failure", session.ErrBackendUnavailable)
	}
	return s.Slot.Clear(ctx)
}

func slotBytes(t *testing.T, slot session.Slot) ([]byte, bool) {
	t.Helper()
	data, err := slot.Load(context.Background())
	if err != nil {
		return nil, false
	}
	return data, true
}
