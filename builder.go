package scmsauth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/scmsauth/directory"
	"github.com/MrEthical07/scmsauth/internal/audit"
	"github.com/MrEthical07/scmsauth/internal/rate"
	"github.com/MrEthical07/scmsauth/password"
	"github.com/MrEthical07/scmsauth/permission"
	"github.com/MrEthical07/scmsauth/session"
)

// Builder assembles an Authority. A Builder can be built once.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	slot   session.Slot

	directory Directory
	policy    *permission.Policy

	auditSink AuditSink
	logger    *slog.Logger
	now       func() time.Time

	built bool
}

// New returns a Builder holding DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client used for the login throttle and, unless
// WithSlot is also called, for the session slot.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSlot sets the persisted slot backend. Without it the authority uses a
// Redis slot when WithRedis was called and an in-memory slot otherwise.
func (b *Builder) WithSlot(slot session.Slot) *Builder {
	b.slot = slot
	return b
}

// WithDirectory sets the account directory. Without it the three demo
// accounts are used, which ProductionMode refuses.
func (b *Builder) WithDirectory(d Directory) *Builder {
	b.directory = d
	return b
}

// WithPolicy replaces the default role → resource table.
func (b *Builder) WithPolicy(p permission.Policy) *Builder {
	b.policy = &p
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

func (b *Builder) withClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and returns a ready Authority. The
// authority starts anonymous; call RestoreSession to pick up a persisted
// session.
func (b *Builder) Build() (*Authority, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Security.EnableLoginThrottle && b.redis == nil {
		return nil, errors.New("EnableLoginThrottle requires redis client")
	}

	// -------- DIRECTORY --------
	dir := b.directory
	if dir == nil {
		if cfg.Security.ProductionMode {
			return nil, errors.New("ProductionMode requires an explicit directory")
		}
		dir = directory.Demo()
	}
	if dir.Len() == 0 {
		return nil, errors.New("directory has no accounts")
	}
	if cfg.Security.ProductionMode && dir.CountHashed() != dir.Len() {
		return nil, errors.New("ProductionMode requires hashed secrets for every directory entry")
	}

	// -------- PERMISSION GATE --------
	policy := permission.DefaultPolicy()
	if b.policy != nil {
		policy = *b.policy
	}
	gate, err := permission.NewGate(policy, cfg.Permission.MaxBits, cfg.Permission.RootBitReserved)
	if err != nil {
		return nil, err
	}
	for _, acc := range dir.Accounts() {
		if !gate.HasRole(acc.Role.String()) {
			return nil, fmt.Errorf("directory account %s has role %q missing from the permission policy", acc.ID, acc.Role)
		}
	}

	// -------- PASSWORD --------
	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	// -------- SESSION SLOT --------
	slot := b.slot
	if slot == nil {
		if b.redis != nil {
			slot = session.NewRedisSlot(b.redis, cfg.Session.RedisPrefix, cfg.Session.Key, cfg.Session.RedisTTL)
		} else {
			slot = session.NewMemorySlot()
		}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	a := &Authority{
		config:    cfg,
		directory: dir,
		gate:      gate,
		store:     session.NewStore(slot),
		hasher:    hasher,
		metrics:   NewMetrics(cfg.Metrics),
		logger:    logger,
		now:       now,
	}

	// -------- LOGIN THROTTLE --------
	if cfg.Security.EnableLoginThrottle {
		a.limiter = rate.New(b.redis, rate.Config{
			Prefix:                cfg.Session.RedisPrefix,
			EnableIPThrottle:      cfg.Security.EnableIPThrottle,
			MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
			LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
		})
	}

	// -------- AUDIT --------
	a.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	a.flows = a.buildFlows()

	b.built = true
	return a, nil
}
