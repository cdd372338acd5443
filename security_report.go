package scmsauth

import (
	"time"

	"github.com/MrEthical07/scmsauth/internal/security"
)

// SecurityReport describes the effective security posture of an Authority.
// Warnings lists the known limitations left open by the configuration.
type SecurityReport struct {
	ProductionMode      bool
	SlotBackend         string
	SlotEncrypted       bool
	DirectoryAccounts   int
	HashedSecrets       int
	PlaintextSecrets    int
	ConstantTimeCompare bool
	LoginThrottleActive bool
	MaxLoginAttempts    int
	LoginCooldown       time.Duration
	VerifyRestore       bool
	AuditEnabled        bool
	MetricsEnabled      bool
	Argon2              PasswordConfigReport
	Warnings            []string
}

type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (a *Authority) SecurityReport() SecurityReport {
	if a == nil {
		return SecurityReport{}
	}

	r := security.BuildReport(security.ReportInput{
		ProductionMode:         a.config.Security.ProductionMode,
		SlotBackend:            a.store.Backend(),
		DirectoryAccounts:      a.directory.Len(),
		HashedSecrets:          a.directory.CountHashed(),
		ConstantTimeCompare:    a.config.Security.ConstantTimeCompare,
		EnableLoginThrottle:    a.limiter != nil,
		MaxLoginAttempts:       a.config.Security.MaxLoginAttempts,
		LoginCooldownDuration:  a.config.Security.LoginCooldownDuration,
		VerifyAgainstDirectory: a.config.Session.VerifyAgainstDirectory,
		AuditEnabled:           a.audit != nil,
		MetricsEnabled:         a.metrics.Enabled(),
		Password: security.PasswordReport{
			Memory:      a.config.Password.Memory,
			Time:        a.config.Password.Time,
			Parallelism: a.config.Password.Parallelism,
			SaltLength:  a.config.Password.SaltLength,
			KeyLength:   a.config.Password.KeyLength,
		},
	})

	return SecurityReport{
		ProductionMode:      r.ProductionMode,
		SlotBackend:         r.SlotBackend,
		SlotEncrypted:       r.SlotEncrypted,
		DirectoryAccounts:   r.DirectoryAccounts,
		HashedSecrets:       r.HashedSecrets,
		PlaintextSecrets:    r.PlaintextSecrets,
		ConstantTimeCompare: r.ConstantTimeCompare,
		LoginThrottleActive: r.LoginThrottleActive,
		MaxLoginAttempts:    r.MaxLoginAttempts,
		LoginCooldown:       r.LoginCooldown,
		VerifyRestore:       r.VerifyRestore,
		AuditEnabled:        r.AuditEnabled,
		MetricsEnabled:      r.MetricsEnabled,
		Argon2:              PasswordConfigReport(r.Argon2),
		Warnings:            r.Warnings,
	}
}
