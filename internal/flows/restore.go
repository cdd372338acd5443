package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/scmsauth/directory"
)

// RestoreOutcome classifies what RunRestore found in the slot.
type RestoreOutcome int

const (
	RestoreEmpty RestoreOutcome = iota
	RestoreRestored
	RestoreCorrupt
	RestoreRejected
	RestoreUnavailable
)

func (o RestoreOutcome) String() string {
	switch o {
	case RestoreEmpty:
		return "empty"
	case RestoreRestored:
		return "restored"
	case RestoreCorrupt:
		return "corrupt"
	case RestoreRejected:
		return "rejected"
	case RestoreUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RestoreResult is the flow-local view of a restored session. Account,
// SessionID and IssuedAt are zero unless Outcome is RestoreRestored.
type RestoreResult struct {
	Outcome   RestoreOutcome
	Account   directory.Account
	SessionID string
	IssuedAt  time.Time
}

// RestoreMetrics carries metric IDs used by the restore flow.
type RestoreMetrics struct {
	Restored    int
	Corrupt     int
	Unavailable int
}

// RestoreEvents carries audit event names used by the restore flow.
type RestoreEvents struct {
	Restored string
	Corrupt  string
}

// RestoreDeps captures restore dependencies. Verify is optional; when set,
// a record it refuses is cleared like a corrupt one.
type RestoreDeps struct {
	Now          func() time.Time
	NewSessionID func() string

	Load      func(context.Context) (directory.Account, error)
	Clear     func(context.Context) error
	IsEmpty   func(error) bool
	IsCorrupt func(error) bool
	Verify    func(directory.Account) bool

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Warn      func(string, ...any)

	Metrics RestoreMetrics
	Events  RestoreEvents
}

// RunRestore reads the slot once. It never fails: every problem maps to an
// outcome without a session.
func RunRestore(ctx context.Context, deps RestoreDeps) RestoreResult {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = noopMetric
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = noopAudit
	}
	if deps.Warn == nil {
		deps.Warn = noopWarn
	}
	if deps.IsEmpty == nil {
		deps.IsEmpty = func(error) bool { return false }
	}
	if deps.IsCorrupt == nil {
		deps.IsCorrupt = func(error) bool { return false }
	}
	if deps.Load == nil || deps.Clear == nil || deps.NewSessionID == nil {
		return RestoreResult{Outcome: RestoreUnavailable}
	}

	acc, err := deps.Load(ctx)
	switch {
	case err == nil:
	case deps.IsEmpty(err):
		return RestoreResult{Outcome: RestoreEmpty}
	case deps.IsCorrupt(err):
		discard(ctx, "malformed", deps)
		return RestoreResult{Outcome: RestoreCorrupt}
	default:
		deps.MetricInc(deps.Metrics.Unavailable)
		deps.Warn("scmsauth: session slot read failed", "error", err)
		return RestoreResult{Outcome: RestoreUnavailable}
	}

	if deps.Verify != nil && !deps.Verify(acc) {
		discard(ctx, "directory_mismatch", deps)
		return RestoreResult{Outcome: RestoreRejected}
	}

	res := RestoreResult{
		Outcome:   RestoreRestored,
		Account:   acc,
		SessionID: deps.NewSessionID(),
		IssuedAt:  deps.Now(),
	}

	deps.MetricInc(deps.Metrics.Restored)
	deps.EmitAudit(ctx, deps.Events.Restored, true, acc.ID, acc.Role.String(), res.SessionID, nil, nil)

	return res
}

func discard(ctx context.Context, reason string, deps RestoreDeps) {
	if err := deps.Clear(ctx); err != nil {
		deps.Warn("scmsauth: clearing unusable session record failed", "reason", reason, "error", err)
	}
	deps.MetricInc(deps.Metrics.Corrupt)
	deps.EmitAudit(ctx, deps.Events.Corrupt, false, "", "", "", nil, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
}
