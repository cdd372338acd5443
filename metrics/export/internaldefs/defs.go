package internaldefs

import (
	scmsauth "github.com/MrEthical07/scmsauth"
)

// CounterDef names one authority counter for exporters.
type CounterDef struct {
	ID   scmsauth.MetricID
	Name string
	Help string
}

// HistogramDef names one authority histogram for exporters.
type HistogramDef struct {
	ID   scmsauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: scmsauth.MetricLoginSuccess, Name: "scms_login_success_total", Help: "Successful authentications."},
	{ID: scmsauth.MetricLoginFailure, Name: "scms_login_failure_total", Help: "Authentications rejected for invalid credentials."},
	{ID: scmsauth.MetricLoginRateLimited, Name: "scms_login_rate_limited_total", Help: "Authentications rejected by the login throttle."},
	{ID: scmsauth.MetricSessionPersistFailure, Name: "scms_session_persist_failure_total", Help: "Authentications that could not write the session slot."},
	{ID: scmsauth.MetricSessionRestored, Name: "scms_session_restored_total", Help: "Sessions restored from the slot."},
	{ID: scmsauth.MetricSessionDiscarded, Name: "scms_session_discarded_total", Help: "Persisted records erased as corrupt or unverified."},
	{ID: scmsauth.MetricSlotUnavailable, Name: "scms_slot_unavailable_total", Help: "Restores skipped because the slot backend failed."},
	{ID: scmsauth.MetricLogout, Name: "scms_logout_total", Help: "Ended sessions."},
	{ID: scmsauth.MetricSlotClearFailure, Name: "scms_slot_clear_failure_total", Help: "Slot clears that failed."},
	{ID: scmsauth.MetricAccessGranted, Name: "scms_access_granted_total", Help: "Gate checks that allowed the active session."},
	{ID: scmsauth.MetricAccessDenied, Name: "scms_access_denied_total", Help: "Gate checks that denied the active session."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: scmsauth.MetricAuthenticateLatency, Name: "scms_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const (
	AuditDroppedName = "scms_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramUpperBounds are the finite bucket bounds in seconds. The last
// bucket of a snapshot is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
