package flows

import (
	"context"
	"fmt"
)

// EndSubject identifies the session being ended. It is zero when the
// authority was already anonymous.
type EndSubject struct {
	AccountID string
	Role      string
	SessionID string
}

// EndMetrics carries metric IDs used by the end-session flow.
type EndMetrics struct {
	Ended        int
	ClearFailure int
}

// EndEvents carries audit event names used by the end-session flow.
type EndEvents struct {
	Ended string
}

// EndErrors carries host-level sentinel errors.
type EndErrors struct {
	ClearFailed error
}

// EndDeps captures end-session dependencies.
type EndDeps struct {
	Clear func(context.Context) error

	MetricInc func(int)
	EmitAudit EmitAuditFunc
	Warn      func(string, ...any)

	Metrics EndMetrics
	Events  EndEvents
	Errors  EndErrors
}

// RunEnd clears the slot unconditionally. Ending an anonymous authority
// still clears the slot but is not counted or audited.
func RunEnd(ctx context.Context, subject EndSubject, deps EndDeps) error {
	if deps.MetricInc == nil {
		deps.MetricInc = noopMetric
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = noopAudit
	}
	if deps.Warn == nil {
		deps.Warn = noopWarn
	}
	if deps.Clear == nil {
		return deps.Errors.ClearFailed
	}

	if err := deps.Clear(ctx); err != nil {
		deps.MetricInc(deps.Metrics.ClearFailure)
		deps.Warn("scmsauth: session slot clear failed", "error", err)
		deps.EmitAudit(ctx, deps.Events.Ended, false, subject.AccountID, subject.Role, subject.SessionID, deps.Errors.ClearFailed, nil)
		return fmt.Errorf("%w: %v", deps.Errors.ClearFailed, err)
	}

	if subject.AccountID == "" {
		return nil
	}

	deps.MetricInc(deps.Metrics.Ended)
	deps.EmitAudit(ctx, deps.Events.Ended, true, subject.AccountID, subject.Role, subject.SessionID, nil, nil)
	return nil
}
