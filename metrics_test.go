package scmsauth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/scmsauth/session"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)

	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)

	if got := m.Value(MetricLoginSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Go(func() {
			for j := 0; j < perG; j++ {
				m.Inc(MetricAccessGranted)
			}
		})
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricAccessGranted); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}
	for _, d := range observations {
		m.Observe(MetricAuthenticateLatency, d)
	}
	m.Observe(MetricLoginSuccess, time.Second)

	buckets := m.Snapshot().Histograms[MetricAuthenticateLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	for i, got := range buckets {
		if got != 1 {
			t.Fatalf("bucket %d: expected 1, got %d", i, got)
		}
	}
}

func TestMetricsSnapshotDisabledIsEmpty(t *testing.T) {
	var m *Metrics
	s := m.Snapshot()
	if len(s.Counters) != 0 || len(s.Histograms) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", s)
	}
}

func TestAuthorityMetrics(t *testing.T) {
	slot := &faultySlot{Slot: session.NewMemorySlot()}
	a := buildAuthority(t, New().
		WithConfig(testConfig()).
		WithSlot(slot).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true))
	ctx := context.Background()

	_, _ = a.Authenticate(ctx, "student@example.com", "bad")
	_, _ = a.Authenticate(ctx, "student@example.com", demoSecret)
	_ = a.CanAccess(ctx, "dashboard")
	_ = a.CanAccess(ctx, "users")
	_ = a.EndSession(ctx)

	_ = slot.Store(ctx, []byte("garbage"))
	_, _ = a.RestoreSession(ctx)

	slot.failStore = true
	_, _ = a.Authenticate(ctx, "admin@example.com", demoSecret)

	snap := a.MetricsSnapshot()
	want := map[MetricID]uint64{
		MetricLoginSuccess:          1,
		MetricLoginFailure:          1,
		MetricAccessGranted:         1,
		MetricAccessDenied:          1,
		MetricLogout:                1,
		MetricSessionDiscarded:      1,
		MetricSessionPersistFailure: 1,
	}
	for id, n := range want {
		if snap.Counters[id] != n {
			t.Fatalf("metric %d: expected %d, got %d", id, n, snap.Counters[id])
		}
	}

	var total uint64
	for _, n := range snap.Histograms[MetricAuthenticateLatency] {
		total += n
	}
	if total != 3 {
		t.Fatalf("expected 3 latency observations, got %d", total)
	}
}
