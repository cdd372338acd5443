package scmsauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/scmsauth/directory"
	"github.com/MrEthical07/scmsauth/internal/audit"
	"github.com/MrEthical07/scmsauth/internal/flows"
	"github.com/MrEthical07/scmsauth/internal/rate"
	"github.com/MrEthical07/scmsauth/password"
	"github.com/MrEthical07/scmsauth/permission"
	"github.com/MrEthical07/scmsauth/session"
)

// Authority owns the current session of one dashboard instance. It is the
// only writer of the persisted slot.
//
// State-changing operations (Authenticate, RestoreSession, EndSession) are
// serialized so the slot and the in-memory session always move together.
// Queries take a read lock and return copies.
type Authority struct {
	config    Config
	directory Directory
	gate      *permission.Gate
	store     *session.Store
	hasher    *password.Argon2
	limiter   *rate.Limiter
	flows     flows.Service
	audit     *audit.Dispatcher
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time

	ops     sync.Mutex
	mu      sync.RWMutex
	current *Session
}

// Authenticate verifies (email, secret) against the directory. The email
// lookup is exact and case-sensitive. On success the account record is
// persisted, replaces any current session, and is returned.
//
// Failures return ErrInvalidCredentials for an unknown email and for a wrong
// secret alike, ErrLoginRateLimited when the optional throttle is exhausted,
// and ErrSessionPersistFailed when the slot write fails. In every failure
// case the previous state is left untouched.
func (a *Authority) Authenticate(ctx context.Context, email, secret string) (*Session, error) {
	if a == nil || !a.flows.Initialized() {
		return nil, ErrAuthorityNotReady
	}

	a.ops.Lock()
	defer a.ops.Unlock()

	res, err := a.flows.Authenticate(ctx, email, secret)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       res.SessionID,
		Account:  res.Account,
		Valid:    true,
		IssuedAt: res.IssuedAt,
	}
	a.setCurrent(s)

	return s.clone(), nil
}

// RestoreSession rebuilds the session from the persisted slot. It never
// fails: a valid record becomes the current session; an empty slot leaves
// the authority anonymous; a malformed record (or one refused by directory
// verification) is erased and the authority stays anonymous. When the slot
// backend cannot be read the error is logged, nothing is erased, and the
// in-memory state is kept as it was.
func (a *Authority) RestoreSession(ctx context.Context) (*Session, bool) {
	if a == nil || !a.flows.Initialized() {
		return nil, false
	}

	a.ops.Lock()
	defer a.ops.Unlock()

	res := a.flows.Restore(ctx)
	switch res.Outcome {
	case flows.RestoreRestored:
		s := &Session{
			ID:       res.SessionID,
			Account:  res.Account,
			Valid:    true,
			IssuedAt: res.IssuedAt,
		}
		a.setCurrent(s)
		return s.clone(), true
	case flows.RestoreUnavailable:
		return a.Current()
	default:
		a.setCurrent(nil)
		return nil, false
	}
}

// EndSession drops the current session and clears the slot. It is
// idempotent. The authority is anonymous afterwards even when clearing the
// slot fails; that failure is returned wrapped in ErrSessionClearFailed.
func (a *Authority) EndSession(ctx context.Context) error {
	if a == nil || !a.flows.Initialized() {
		return ErrAuthorityNotReady
	}

	a.ops.Lock()
	defer a.ops.Unlock()

	var subject flows.EndSubject
	if prev := a.swapCurrent(nil); prev != nil {
		subject = flows.EndSubject{
			AccountID: prev.Account.ID,
			Role:      prev.Account.Role.String(),
			SessionID: prev.ID,
		}
	}

	return a.flows.End(ctx, subject)
}

// IsAuthenticated reports whether a valid session is held.
func (a *Authority) IsAuthenticated() bool {
	if a == nil {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current != nil && a.current.Valid
}

// CurrentAccount returns the account of the current session.
func (a *Authority) CurrentAccount() (Account, bool) {
	s, ok := a.Current()
	if !ok {
		return Account{}, false
	}
	return s.Account, true
}

// Current returns a copy of the current session.
func (a *Authority) Current() (*Session, bool) {
	if a == nil {
		return nil, false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil || !a.current.Valid {
		return nil, false
	}
	return a.current.clone(), true
}

// IsPermitted answers whether role may access resource. It is a pure table
// lookup: unknown roles and unknown resources are denied.
func (a *Authority) IsPermitted(role, resource string) bool {
	if a == nil {
		return false
	}
	return a.gate.Allowed(role, resource)
}

// Authorize checks resource against the current session's role. Anonymous
// callers and denied roles get an error wrapping ErrPermissionDenied; the
// denial is counted and audited.
func (a *Authority) Authorize(ctx context.Context, resource string) error {
	if a == nil {
		return ErrAuthorityNotReady
	}

	s, ok := a.Current()
	if ok && a.gate.Allowed(s.Account.Role.String(), resource) {
		a.metricInc(MetricAccessGranted)
		return nil
	}

	a.metricInc(MetricAccessDenied)
	var accountID, role, sessionID string
	if ok {
		accountID, role, sessionID = s.Account.ID, s.Account.Role.String(), s.ID
	}
	a.emitAudit(ctx, AuditEventUnauthorizedAccess, false, accountID, role, sessionID, ErrPermissionDenied, func() map[string]string {
		return map[string]string{
			"resource": resource,
		}
	})

	if !ok {
		return fmt.Errorf("%w: no active session", ErrPermissionDenied)
	}
	return fmt.Errorf("%w: role %q cannot access %q", ErrPermissionDenied, role, resource)
}

// CanAccess is Authorize reduced to a boolean.
func (a *Authority) CanAccess(ctx context.Context, resource string) bool {
	return a.Authorize(ctx, resource) == nil
}

// HashSecret hashes secret with the configured argon2id parameters, for use
// as a directory entry's secret_hash.
func (a *Authority) HashSecret(secret string) (string, error) {
	if a == nil || a.hasher == nil {
		return "", ErrAuthorityNotReady
	}
	return a.hasher.Hash(secret)
}

// MetricsSnapshot returns a copy of all counters.
func (a *Authority) MetricsSnapshot() MetricsSnapshot {
	if a == nil {
		return (*Metrics)(nil).Snapshot()
	}
	return a.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (a *Authority) AuditDropped() uint64 {
	if a == nil {
		return 0
	}
	return a.audit.Dropped()
}

// Close flushes the audit dispatcher. The slot and any Redis client stay
// owned by the caller.
func (a *Authority) Close() {
	if a == nil {
		return
	}
	a.audit.Close()
}

func (a *Authority) setCurrent(s *Session) {
	a.mu.Lock()
	a.current = s
	a.mu.Unlock()
}

func (a *Authority) swapCurrent(s *Session) *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.current
	a.current = s
	return prev
}

func (a *Authority) metricInc(id MetricID) {
	a.metrics.Inc(id)
}

func (a *Authority) warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

func (a *Authority) verifySecret(secret string, entry directory.Entry) (bool, error) {
	if entry.Hashed() {
		return a.hasher.Verify(secret, entry.SecretHash)
	}
	if a.config.Security.ConstantTimeCompare {
		return subtle.ConstantTimeCompare([]byte(secret), []byte(entry.Secret)) == 1, nil
	}
	return secret == entry.Secret, nil
}

// matchesDirectory reports whether acc is exactly the stored account under
// its email.
func (a *Authority) matchesDirectory(acc Account) bool {
	entry, ok := a.directory.Lookup(acc.Email)
	return ok && entry.Account() == acc
}

func newSessionID() string {
	return uuid.NewString()
}

func (a *Authority) buildFlows() flows.Service {
	emit := flows.EmitAuditFunc(a.emitAudit)
	metricInc := func(id int) { a.metricInc(MetricID(id)) }

	authDeps := flows.AuthenticateDeps{
		ClientIPFromContext: ClientIPFromContext,
		Now:                 a.now,
		NewSessionID:        newSessionID,
		Lookup:              a.directory.Lookup,
		VerifySecret:        a.verifySecret,
		Persist:             a.store.Save,
		MetricInc:           metricInc,
		ObserveLatency: func(d time.Duration) {
			a.metrics.Observe(MetricAuthenticateLatency, d)
		},
		EmitAudit: emit,
		Warn:      a.warn,
		Metrics: flows.AuthenticateMetrics{
			Success:        int(MetricLoginSuccess),
			Failure:        int(MetricLoginFailure),
			RateLimited:    int(MetricLoginRateLimited),
			PersistFailure: int(MetricSessionPersistFailure),
		},
		Events: flows.AuthenticateEvents{
			Success:     AuditEventLoginSuccess,
			Failure:     AuditEventLoginFailure,
			RateLimited: AuditEventLoginRateLimited,
		},
		Errors: flows.AuthenticateErrors{
			NotReady:           ErrAuthorityNotReady,
			InvalidCredentials: ErrInvalidCredentials,
			RateLimited:        ErrLoginRateLimited,
			PersistFailed:      ErrSessionPersistFailed,
		},
	}
	if a.limiter != nil {
		authDeps.CheckLoginRate = a.checkLoginRate
		authDeps.IncrementLoginRate = a.limiter.IncrementLogin
		authDeps.ResetLoginRate = a.limiter.ResetLogin
	}

	restoreDeps := flows.RestoreDeps{
		Now:          a.now,
		NewSessionID: newSessionID,
		Load:         a.store.Load,
		Clear:        a.store.Clear,
		IsEmpty:      func(err error) bool { return errors.Is(err, session.ErrEmpty) },
		IsCorrupt:    func(err error) bool { return errors.Is(err, session.ErrCorrupt) },
		MetricInc:    metricInc,
		EmitAudit:    emit,
		Warn:         a.warn,
		Metrics: flows.RestoreMetrics{
			Restored:    int(MetricSessionRestored),
			Corrupt:     int(MetricSessionDiscarded),
			Unavailable: int(MetricSlotUnavailable),
		},
		Events: flows.RestoreEvents{
			Restored: AuditEventSessionRestored,
			Corrupt:  AuditEventSessionDiscarded,
		},
	}
	if a.config.Session.VerifyAgainstDirectory {
		restoreDeps.Verify = a.matchesDirectory
	}

	endDeps := flows.EndDeps{
		Clear:     a.store.Clear,
		MetricInc: metricInc,
		EmitAudit: emit,
		Warn:      a.warn,
		Metrics: flows.EndMetrics{
			Ended:        int(MetricLogout),
			ClearFailure: int(MetricSlotClearFailure),
		},
		Events: flows.EndEvents{Ended: AuditEventLogout},
		Errors: flows.EndErrors{ClearFailed: ErrSessionClearFailed},
	}

	return flows.New(flows.Deps{
		Authenticate: authDeps,
		Restore:      restoreDeps,
		End:          endDeps,
	})
}

// checkLoginRate fails closed: a throttle backend error blocks the attempt.
func (a *Authority) checkLoginRate(ctx context.Context, email, ip string) error {
	err := a.limiter.CheckLogin(ctx, email, ip)
	if errors.Is(err, rate.ErrRedisUnavailable) {
		a.warn("scmsauth: login throttle unavailable", "error", err)
	}
	return err
}
