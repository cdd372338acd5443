package scmsauth

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/scmsauth/session"
)

// Config holds every tunable of an Authority. Build validates and copies it;
// later changes to the caller's value have no effect.
type Config struct {
	Session    SessionConfig
	Security   SecurityConfig
	Password   PasswordConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	Permission PermissionConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the persisted slot.
type SessionConfig struct {
	Key         string        // slot key, "scms_user" by default
	RedisPrefix string        // namespace for Redis-backed slots and throttle keys
	RedisTTL    time.Duration // 0 keeps the record until logout

	// VerifyAgainstDirectory rejects a restored record that does not match a
	// directory account field for field.
	VerifyAgainstDirectory bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds the opt-in hardening switches. All of them are off by
// default so the authority behaves like the reference dashboard; see
// Authority.SecurityReport for what that leaves open.
type SecurityConfig struct {
	ProductionMode        bool
	EnableLoginThrottle   bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	ConstantTimeCompare   bool
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id parameters for hashing new directory secrets.
// Verification always uses the parameters embedded in the stored hash.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
PERMISSION CONFIG
====================================
*/

type PermissionConfig struct {
	MaxBits         int  // 64 or 128
	RootBitReserved bool // if true, the highest bit is reserved for a super role
}

// DefaultConfig returns the reference configuration: demo-compatible, no
// throttle, plaintext comparison, audit and metrics off.
func DefaultConfig() Config {
	return defaultConfig()
}

// HardenedConfig returns DefaultConfig with every opt-in protection enabled.
// It requires a Redis client for the login throttle and a directory whose
// entries carry hashed secrets.
func HardenedConfig() Config {
	cfg := defaultConfig()
	cfg.Security.ProductionMode = true
	cfg.Security.EnableLoginThrottle = true
	cfg.Security.EnableIPThrottle = true
	cfg.Security.ConstantTimeCompare = true
	cfg.Session.VerifyAgainstDirectory = true
	cfg.Audit.Enabled = true
	return cfg
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Key:                    session.DefaultKey,
			RedisPrefix:            "scms",
			RedisTTL:               0,
			VerifyAgainstDirectory: false,
		},
		Security: SecurityConfig{
			ProductionMode:        false,
			EnableLoginThrottle:   false,
			EnableIPThrottle:      false,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,
			ConstantTimeCompare:   false,
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Permission: PermissionConfig{
			MaxBits:         64,
			RootBitReserved: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// Session
	if strings.TrimSpace(c.Session.Key) == "" {
		return errors.New("Session Key must not be empty")
	}
	if strings.ContainsAny(c.Session.RedisPrefix, " \t\n") {
		return errors.New("Session RedisPrefix must not contain whitespace")
	}
	if c.Session.RedisTTL < 0 {
		return errors.New("Session RedisTTL must be >= 0")
	}

	// Security
	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("Security MaxLoginAttempts must be > 0 when EnableLoginThrottle is true")
		}
		if c.Security.LoginCooldownDuration <= 0 {
			return errors.New("Security LoginCooldownDuration must be > 0 when EnableLoginThrottle is true")
		}
	}
	if c.Security.EnableIPThrottle && !c.Security.EnableLoginThrottle {
		return errors.New("Security EnableIPThrottle requires EnableLoginThrottle")
	}
	if c.Security.ProductionMode {
		if !c.Security.EnableLoginThrottle {
			return errors.New("ProductionMode requires EnableLoginThrottle")
		}
		if !c.Security.ConstantTimeCompare {
			return errors.New("ProductionMode requires ConstantTimeCompare")
		}
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	// Permission
	if c.Permission.MaxBits != 64 && c.Permission.MaxBits != 128 {
		return errors.New("Permission MaxBits must be 64 or 128")
	}

	return nil
}
