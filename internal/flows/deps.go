package flows

import (
	"context"
	"time"
)

// Deps groups flow dependency sets. The authority builds this once and
// delegates each operation to the matching flow.
type Deps struct {
	Authenticate AuthenticateDeps
	Restore      RestoreDeps
	End          EndDeps
}

// EmitAuditFunc is the audit callback shared by all flows. metadata is only
// invoked when auditing is enabled.
type EmitAuditFunc func(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	role string,
	sessionID string,
	err error,
	metadata func() map[string]string,
)

func noopAudit(context.Context, string, bool, string, string, string, error, func() map[string]string) {
}

func noopMetric(int) {}

func noopWarn(string, ...any) {}

func noopLatency(time.Duration) {}
