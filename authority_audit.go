package scmsauth

import (
	"context"
	"errors"
)

// Audit event types.
const (
	AuditEventLoginSuccess       = "login_success"
	AuditEventLoginFailure       = "login_failure"
	AuditEventLoginRateLimited   = "login_rate_limited"
	AuditEventSessionRestored    = "session_restored"
	AuditEventSessionDiscarded   = "session_record_discarded"
	AuditEventLogout             = "logout"
	AuditEventUnauthorizedAccess = "unauthorized_access"
)

// AuditErrorCode is the stable error label carried in AuditEvent.Error.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrPersistFailed      AuditErrorCode = "session_persist_failed"
	auditErrClearFailed        AuditErrorCode = "session_clear_failed"
	auditErrPermissionDenied   AuditErrorCode = "permission_denied"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (a *Authority) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	role string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if a == nil || a.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: a.now().UTC(),
		EventType: eventType,
		AccountID: accountID,
		Role:      role,
		SessionID: sessionID,
		IP:        ClientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	a.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrSessionPersistFailed):
		return auditErrPersistFailed
	case errors.Is(err, ErrSessionClearFailed):
		return auditErrClearFailed
	case errors.Is(err, ErrPermissionDenied):
		return auditErrPermissionDenied
	default:
		return auditErrInternal
	}
}
