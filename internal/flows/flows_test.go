package flows

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/scmsauth/directory"
)

var (
	errNotReady      = errors.New("not ready")
	errInvalid       = errors.New("invalid credentials")
	errLimited       = errors.New("rate limited")
	errPersistFailed = errors.New("persist failed")
	errClearFailed   = errors.New("clear failed")
	errEmpty         = errors.New("empty")
	errCorrupt       = errors.New("corrupt")
)

type recordedEvent struct {
	eventType string
	success   bool
	accountID string
	role      string
	sessionID string
	err       error
	metadata  map[string]string
}

type recorder struct {
	metrics map[int]int
	events  []recordedEvent
	warns   []string
}

func newRecorder() *recorder {
	return &recorder{metrics: map[int]int{}}
}

func (r *recorder) inc(id int) { r.metrics[id]++ }

func (r *recorder) audit(_ context.Context, eventType string, success bool, accountID, role, sessionID string, err error, md func() map[string]string) {
	ev := recordedEvent{eventType: eventType, success: success, accountID: accountID, role: role, sessionID: sessionID, err: err}
	if md != nil {
		ev.metadata = md()
	}
	r.events = append(r.events, ev)
}

func (r *recorder) warn(msg string, args ...any) { r.warns = append(r.warns, msg) }

const (
	mSuccess = iota + 1
	mFailure
	mLimited
	mPersist
	mRestored
	mCorrupt
	mUnavailable
	mEnded
	mClearFailure
)

func demoLookup(email string) (directory.Entry, bool) {
	for _, e := range directory.DemoEntries() {
		if e.Email == email {
			return e, true
		}
	}
	return directory.Entry{}, false
}

func plainVerify(secret string, e directory.Entry) (bool, error) {
	return secret == e.Secret, nil
}

func authDeps(rec *recorder, persisted *[]directory.Account) AuthenticateDeps {
	return AuthenticateDeps{
		NewSessionID: func() string { return "sid-1" },
		Lookup:       demoLookup,
		VerifySecret: plainVerify,
		Persist: func(_ context.Context, acc directory.Account) error {
			*persisted = append(*persisted, acc)
			return nil
		},
		MetricInc: rec.inc,
		EmitAudit: rec.audit,
		Warn:      rec.warn,
		Metrics:   AuthenticateMetrics{Success: mSuccess, Failure: mFailure, RateLimited: mLimited, PersistFailure: mPersist},
		Events:    AuthenticateEvents{Success: "login_success", Failure: "login_failure", RateLimited: "login_rate_limited"},
		Errors:    AuthenticateErrors{NotReady: errNotReady, InvalidCredentials: errInvalid, RateLimited: errLimited, PersistFailed: errPersistFailed},
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	deps := authDeps(rec, &persisted)

	res, err := RunAuthenticate(context.Background(), "teacher@example.com", "password123", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Account.ID != "2" || res.Account.Role != directory.RoleTeacher || res.SessionID != "sid-1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(persisted) != 1 || persisted[0] != res.Account {
		t.Fatalf("expected persisted account, got %+v", persisted)
	}
	if rec.metrics[mSuccess] != 1 {
		t.Fatalf("expected success metric, got %v", rec.metrics)
	}
	if len(rec.events) != 1 || !rec.events[0].success || rec.events[0].sessionID != "sid-1" {
		t.Fatalf("unexpected audit events %+v", rec.events)
	}
}

func TestAuthenticateFailuresShareShape(t *testing.T) {
	cases := []struct{ email, secret string }{
		{"nobody@example.com", "password123"},
		{"student@example.com", "wrong"},
		{"STUDENT@example.com", "password123"},
		{"student@example.com", ""},
		{"", "password123"},
	}

	var first *recordedEvent
	for _, tc := range cases {
		rec := newRecorder()
		var persisted []directory.Account
		_, err := RunAuthenticate(context.Background(), tc.email, tc.secret, authDeps(rec, &persisted))
		if !errors.Is(err, errInvalid) {
			t.Fatalf("%q/%q: expected invalid credentials, got %v", tc.email, tc.secret, err)
		}
		if len(persisted) != 0 {
			t.Fatalf("%q: failure must not persist", tc.email)
		}
		if len(rec.events) != 1 {
			t.Fatalf("%q: expected one audit event, got %d", tc.email, len(rec.events))
		}
		ev := rec.events[0]
		if ev.accountID != "" || ev.role != "" || len(ev.metadata) != 1 {
			t.Fatalf("%q: failure event leaks detail: %+v", tc.email, ev)
		}
		if first == nil {
			first = &ev
			continue
		}
		if ev.eventType != first.eventType || ev.err != first.err {
			t.Fatalf("failure events differ: %+v vs %+v", ev, *first)
		}
	}
}

func TestAuthenticateNeverAuditsSecret(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	_, _ = RunAuthenticate(context.Background(), "student@example.com", "hunter2-secret", authDeps(rec, &persisted))
	_, _ = RunAuthenticate(context.Background(), "student@example.com", "password123", authDeps(rec, &persisted))

	for _, ev := range rec.events {
		for _, v := range ev.metadata {
			if strings.Contains(v, "hunter2") || strings.Contains(v, "password123") {
				t.Fatalf("secret leaked into audit metadata: %+v", ev)
			}
		}
	}
}

func TestAuthenticatePersistFailure(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	deps := authDeps(rec, &persisted)
	deps.Persist = func(context.Context, directory.Account) error { return errors.New("disk full") }

	res, err := RunAuthenticate(context.Background(), "admin@example.com", "password123", deps)
	if res != nil || !errors.Is(err, errPersistFailed) {
		t.Fatalf("expected persist failure, got %v %v", res, err)
	}
	if rec.metrics[mPersist] != 1 || rec.metrics[mSuccess] != 0 {
		t.Fatalf("unexpected metrics %v", rec.metrics)
	}
}

func TestAuthenticateRateLimited(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	deps := authDeps(rec, &persisted)
	looked := false
	deps.CheckLoginRate = func(context.Context, string, string) error { return errors.New("limited") }
	deps.Lookup = func(string) (directory.Entry, bool) {
		looked = true
		return directory.Entry{}, false
	}

	_, err := RunAuthenticate(context.Background(), "student@example.com", "password123", deps)
	if !errors.Is(err, errLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	if looked {
		t.Fatal("directory must not be consulted once throttled")
	}
}

func TestAuthenticateIncrementTripsLimit(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	deps := authDeps(rec, &persisted)
	deps.IncrementLoginRate = func(context.Context, string, string) error { return errors.New("over budget") }

	_, err := RunAuthenticate(context.Background(), "student@example.com", "nope", deps)
	if !errors.Is(err, errLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
}

func TestAuthenticateResetsThrottleOnSuccess(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	deps := authDeps(rec, &persisted)
	var reset string
	deps.ResetLoginRate = func(_ context.Context, email, _ string) error {
		reset = email
		return nil
	}

	if _, err := RunAuthenticate(context.Background(), "student@example.com", "password123", deps); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if reset != "student@example.com" {
		t.Fatalf("expected throttle reset, got %q", reset)
	}
}

func TestAuthenticateNotReady(t *testing.T) {
	_, err := RunAuthenticate(context.Background(), "a", "b", AuthenticateDeps{Errors: AuthenticateErrors{NotReady: errNotReady}})
	if !errors.Is(err, errNotReady) {
		t.Fatalf("expected not ready, got %v", err)
	}
}

func TestAuthenticateObservesLatency(t *testing.T) {
	rec := newRecorder()
	var persisted []directory.Account
	deps := authDeps(rec, &persisted)
	var observed int
	deps.ObserveLatency = func(time.Duration) { observed++ }

	_, _ = RunAuthenticate(context.Background(), "student@example.com", "password123", deps)
	_, _ = RunAuthenticate(context.Background(), "student@example.com", "bad", deps)
	if observed != 2 {
		t.Fatalf("expected 2 latency observations, got %d", observed)
	}
}

func restoreDeps(rec *recorder, load func(context.Context) (directory.Account, error), cleared *int) RestoreDeps {
	return RestoreDeps{
		NewSessionID: func() string { return "sid-r" },
		Load:         load,
		Clear: func(context.Context) error {
			*cleared++
			return nil
		},
		IsEmpty:   func(err error) bool { return errors.Is(err, errEmpty) },
		IsCorrupt: func(err error) bool { return errors.Is(err, errCorrupt) },
		MetricInc: rec.inc,
		EmitAudit: rec.audit,
		Warn:      rec.warn,
		Metrics:   RestoreMetrics{Restored: mRestored, Corrupt: mCorrupt, Unavailable: mUnavailable},
		Events:    RestoreEvents{Restored: "session_restored", Corrupt: "session_record_discarded"},
	}
}

func TestRestoreOutcomes(t *testing.T) {
	student := directory.DemoEntries()[0].Account()

	cases := []struct {
		name      string
		load      func(context.Context) (directory.Account, error)
		verify    func(directory.Account) bool
		outcome   RestoreOutcome
		wantClear int
	}{
		{
			name:    "valid",
			load:    func(context.Context) (directory.Account, error) { return student, nil },
			outcome: RestoreRestored,
		},
		{
			name:    "empty",
			load:    func(context.Context) (directory.Account, error) { return directory.Account{}, errEmpty },
			outcome: RestoreEmpty,
		},
		{
			name:      "corrupt",
			load:      func(context.Context) (directory.Account, error) { return directory.Account{}, errCorrupt },
			outcome:   RestoreCorrupt,
			wantClear: 1,
		},
		{
			name:    "backend down",
			load:    func(context.Context) (directory.Account, error) { return directory.Account{}, errors.New("conn refused") },
			outcome: RestoreUnavailable,
		},
		{
			name:      "directory mismatch",
			load:      func(context.Context) (directory.Account, error) { return student, nil },
			verify:    func(directory.Account) bool { return false },
			outcome:   RestoreRejected,
			wantClear: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := newRecorder()
			cleared := 0
			deps := restoreDeps(rec, tc.load, &cleared)
			deps.Verify = tc.verify

			res := RunRestore(context.Background(), deps)
			if res.Outcome != tc.outcome {
				t.Fatalf("expected %s, got %s", tc.outcome, res.Outcome)
			}
			if cleared != tc.wantClear {
				t.Fatalf("expected %d clears, got %d", tc.wantClear, cleared)
			}
			if tc.outcome == RestoreRestored {
				if res.Account != student || res.SessionID != "sid-r" {
					t.Fatalf("unexpected restore result %+v", res)
				}
			} else if res.Account != (directory.Account{}) {
				t.Fatalf("non-restored outcome must carry no account, got %+v", res.Account)
			}
		})
	}
}

func TestRestoreClearFailureIsWarnedOnly(t *testing.T) {
	rec := newRecorder()
	cleared := 0
	deps := restoreDeps(rec, func(context.Context) (directory.Account, error) { return directory.Account{}, errCorrupt }, &cleared)
	deps.Clear = func(context.Context) error { return errors.New("read-only") }

	res := RunRestore(context.Background(), deps)
	if res.Outcome != RestoreCorrupt {
		t.Fatalf("expected corrupt, got %s", res.Outcome)
	}
	if len(rec.warns) != 1 {
		t.Fatalf("expected one warning, got %v", rec.warns)
	}
}

func TestRestoreNotWired(t *testing.T) {
	if res := RunRestore(context.Background(), RestoreDeps{}); res.Outcome != RestoreUnavailable {
		t.Fatalf("expected unavailable, got %s", res.Outcome)
	}
}

func endDeps(rec *recorder, clear func(context.Context) error) EndDeps {
	return EndDeps{
		Clear:     clear,
		MetricInc: rec.inc,
		EmitAudit: rec.audit,
		Warn:      rec.warn,
		Metrics:   EndMetrics{Ended: mEnded, ClearFailure: mClearFailure},
		Events:    EndEvents{Ended: "logout"},
		Errors:    EndErrors{ClearFailed: errClearFailed},
	}
}

func TestEndClearsAndAudits(t *testing.T) {
	rec := newRecorder()
	cleared := 0
	deps := endDeps(rec, func(context.Context) error { cleared++; return nil })

	subject := EndSubject{AccountID: "1", Role: "student", SessionID: "sid"}
	if err := RunEnd(context.Background(), subject, deps); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := RunEnd(context.Background(), EndSubject{}, deps); err != nil {
		t.Fatalf("anonymous end must succeed, got %v", err)
	}
	if cleared != 2 {
		t.Fatalf("slot must be cleared on every call, got %d", cleared)
	}
	if rec.metrics[mEnded] != 1 || len(rec.events) != 1 {
		t.Fatalf("only the active end is counted: %v %+v", rec.metrics, rec.events)
	}
}

func TestEndClearFailure(t *testing.T) {
	rec := newRecorder()
	deps := endDeps(rec, func(context.Context) error { return errors.New("redis down") })

	err := RunEnd(context.Background(), EndSubject{AccountID: "1"}, deps)
	if !errors.Is(err, errClearFailed) {
		t.Fatalf("expected clear failure, got %v", err)
	}
	if rec.metrics[mClearFailure] != 1 {
		t.Fatalf("expected clear failure metric, got %v", rec.metrics)
	}
}

func TestServiceInitialized(t *testing.T) {
	if New(Deps{}).Initialized() {
		t.Fatal("empty service must not report initialized")
	}
	rec := newRecorder()
	var persisted []directory.Account
	cleared := 0
	svc := New(Deps{
		Authenticate: authDeps(rec, &persisted),
		Restore:      restoreDeps(rec, func(context.Context) (directory.Account, error) { return directory.Account{}, errEmpty }, &cleared),
		End:          endDeps(rec, func(context.Context) error { return nil }),
	})
	if !svc.Initialized() {
		t.Fatal("expected initialized service")
	}
	if res := svc.Restore(context.Background()); res.Outcome != RestoreEmpty {
		t.Fatalf("expected empty, got %s", res.Outcome)
	}
}
