package security

import "time"

type PasswordReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Warning codes carried in Report.Warnings.
const (
	WarnPlaintextSecrets     = "plaintext_secrets"
	WarnNonConstantTime      = "non_constant_time_compare"
	WarnNoLoginThrottle      = "no_login_throttle"
	WarnUnencryptedSlot      = "unencrypted_session_slot"
	WarnUnverifiedRestore    = "restore_not_verified_against_directory"
	WarnProductionDemoSecret = "production_mode_with_plaintext_secrets"
)

type Report struct {
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
	Argon2              PasswordReport
	Warnings            []string
}

type ReportInput struct {
	ProductionMode         bool
	SlotBackend            string
	DirectoryAccounts      int
	HashedSecrets          int
	ConstantTimeCompare    bool
	EnableLoginThrottle    bool
	MaxLoginAttempts       int
	LoginCooldownDuration  time.Duration
	VerifyAgainstDirectory bool
	AuditEnabled           bool
	MetricsEnabled         bool
	Password               PasswordReport
}

func BuildReport(input ReportInput) Report {
	plaintext := input.DirectoryAccounts - input.HashedSecrets
	if plaintext < 0 {
		plaintext = 0
	}

	throttle := input.EnableLoginThrottle &&
		input.MaxLoginAttempts > 0 &&
		input.LoginCooldownDuration > 0

	r := Report{
		ProductionMode:      input.ProductionMode,
		SlotBackend:         input.SlotBackend,
		SlotEncrypted:       false,
		DirectoryAccounts:   input.DirectoryAccounts,
		HashedSecrets:       input.HashedSecrets,
		PlaintextSecrets:    plaintext,
		ConstantTimeCompare: input.ConstantTimeCompare,
		LoginThrottleActive: throttle,
		VerifyRestore:       input.VerifyAgainstDirectory,
		AuditEnabled:        input.AuditEnabled,
		MetricsEnabled:      input.MetricsEnabled,
		Argon2:              input.Password,
	}
	if throttle {
		r.MaxLoginAttempts = input.MaxLoginAttempts
		r.LoginCooldown = input.LoginCooldownDuration
	}

	if plaintext > 0 {
		r.Warnings = append(r.Warnings, WarnPlaintextSecrets)
		if input.ProductionMode {
			r.Warnings = append(r.Warnings, WarnProductionDemoSecret)
		}
		// hashed entries always verify in constant time
		if !input.ConstantTimeCompare {
			r.Warnings = append(r.Warnings, WarnNonConstantTime)
		}
	}
	if !throttle {
		r.Warnings = append(r.Warnings, WarnNoLoginThrottle)
	}
	r.Warnings = append(r.Warnings, WarnUnencryptedSlot)
	if !input.VerifyAgainstDirectory {
		r.Warnings = append(r.Warnings, WarnUnverifiedRestore)
	}

	return r
}
