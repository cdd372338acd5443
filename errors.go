package scmsauth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// secret alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned when the optional login throttle has
	// exhausted the attempt budget.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrSessionPersistFailed is returned when credentials matched but the
	// session record could not be written. The previous state is kept.
	ErrSessionPersistFailed = errors.New("session persist failed")
	// ErrSessionClearFailed is returned by EndSession when the slot could not
	// be cleared. The in-memory session is dropped regardless.
	ErrSessionClearFailed = errors.New("session clear failed")
	// ErrPermissionDenied marks an unauthorized access attempt.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAuthorityNotReady is returned when the authority was not built
	// through Builder.Build.
	ErrAuthorityNotReady = errors.New("session authority not initialized")
)
