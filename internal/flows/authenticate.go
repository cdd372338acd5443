package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/scmsauth/directory"
)

// AuthenticateResult is the flow-local view of a new session.
type AuthenticateResult struct {
	Account   directory.Account
	SessionID string
	IssuedAt  time.Time
}

// AuthenticateMetrics carries metric IDs used by the authenticate flow.
type AuthenticateMetrics struct {
	Success        int
	Failure        int
	RateLimited    int
	PersistFailure int
}

// AuthenticateEvents carries audit event names used by the authenticate flow.
type AuthenticateEvents struct {
	Success     string
	Failure     string
	RateLimited string
}

// AuthenticateErrors carries host-level sentinel errors.
type AuthenticateErrors struct {
	NotReady           error
	InvalidCredentials error
	RateLimited        error
	PersistFailed      error
}

// AuthenticateDeps captures authenticate dependencies.
type AuthenticateDeps struct {
	ClientIPFromContext func(context.Context) string
	Now                 func() time.Time
	NewSessionID        func() string

	CheckLoginRate     func(context.Context, string, string) error
	IncrementLoginRate func(context.Context, string, string) error
	ResetLoginRate     func(context.Context, string, string) error

	Lookup       func(email string) (directory.Entry, bool)
	VerifySecret func(secret string, entry directory.Entry) (bool, error)
	Persist      func(context.Context, directory.Account) error

	MetricInc      func(int)
	ObserveLatency func(time.Duration)
	EmitAudit      EmitAuditFunc
	Warn           func(string, ...any)

	Metrics AuthenticateMetrics
	Events  AuthenticateEvents
	Errors  AuthenticateErrors
}

// RunAuthenticate checks (email, secret) against the directory and, on a
// match, persists the account record. Unknown email and wrong secret are
// indistinguishable to the caller and to audit consumers.
func RunAuthenticate(ctx context.Context, email, secret string, deps AuthenticateDeps) (*AuthenticateResult, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = noopMetric
	}
	if deps.ObserveLatency == nil {
		deps.ObserveLatency = noopLatency
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = noopAudit
	}
	if deps.Warn == nil {
		deps.Warn = noopWarn
	}
	if deps.ClientIPFromContext == nil {
		deps.ClientIPFromContext = func(context.Context) string { return "" }
	}
	if deps.Lookup == nil ||
		deps.VerifySecret == nil ||
		deps.Persist == nil ||
		deps.NewSessionID == nil {
		return nil, deps.Errors.NotReady
	}

	start := deps.Now()
	defer func() {
		deps.ObserveLatency(deps.Now().Sub(start))
	}()

	ip := deps.ClientIPFromContext(ctx)

	rateLimited := func() error {
		deps.MetricInc(deps.Metrics.RateLimited)
		deps.EmitAudit(ctx, deps.Events.RateLimited, false, "", "", "", deps.Errors.RateLimited, func() map[string]string {
			return map[string]string{
				"identifier": email,
			}
		})
		return deps.Errors.RateLimited
	}

	reject := func() error {
		if deps.IncrementLoginRate != nil {
			if err := deps.IncrementLoginRate(ctx, email, ip); err != nil {
				return rateLimited()
			}
		}
		deps.MetricInc(deps.Metrics.Failure)
		deps.EmitAudit(ctx, deps.Events.Failure, false, "", "", "", deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": email,
			}
		})
		return deps.Errors.InvalidCredentials
	}

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, email, ip); err != nil {
			return nil, rateLimited()
		}
	}

	if email == "" || secret == "" {
		return nil, reject()
	}

	entry, ok := deps.Lookup(email)
	if !ok {
		return nil, reject()
	}

	match, err := deps.VerifySecret(secret, entry)
	secret = ""
	if err != nil {
		deps.Warn("scmsauth: secret verification failed", "account_id", entry.ID, "error", err)
		return nil, reject()
	}
	if !match {
		return nil, reject()
	}

	acc := entry.Account()
	if err := deps.Persist(ctx, acc); err != nil {
		deps.MetricInc(deps.Metrics.PersistFailure)
		deps.Warn("scmsauth: session persist failed", "account_id", acc.ID, "error", err)
		deps.EmitAudit(ctx, deps.Events.Failure, false, acc.ID, acc.Role.String(), "", deps.Errors.PersistFailed, nil)
		return nil, fmt.Errorf("%w: %v", deps.Errors.PersistFailed, err)
	}

	if deps.ResetLoginRate != nil {
		if err := deps.ResetLoginRate(ctx, email, ip); err != nil {
			deps.Warn("scmsauth: login throttle reset failed", "error", err)
		}
	}

	res := &AuthenticateResult{
		Account:   acc,
		SessionID: deps.NewSessionID(),
		IssuedAt:  deps.Now(),
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.EmitAudit(ctx, deps.Events.Success, true, acc.ID, acc.Role.String(), res.SessionID, nil, nil)

	return res, nil
}
