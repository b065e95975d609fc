package oauth

import (
	"log/slog"

	"github.com/teemow/garmin-mcp/internal/logging"
)

// AuditEventType identifies a security-relevant event in the audit log.
type AuditEventType string

const (
	AuditTokenIssued       AuditEventType = "token_issued"
	AuditTokenRefreshed    AuditEventType = "token_refreshed"
	AuditTokenRevoked      AuditEventType = "token_revoked"
	AuditAuthFailure       AuditEventType = "auth_failure"
	AuditAccessDenied      AuditEventType = "access_denied"
	AuditInvalidPKCE       AuditEventType = "invalid_pkce"
	AuditClientRegistered  AuditEventType = "client_registered"
	AuditRateLimitExceeded AuditEventType = "rate_limit_exceeded"
)

// AuditLogger emits structured audit events for the authorization server.
// Usernames are hashed before logging.
type AuditLogger struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditLogger creates an audit logger. A disabled logger drops all events.
func NewAuditLogger(logger *slog.Logger, enabled bool) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger, enabled: enabled}
}

// LogEvent emits an audit event. Failure-type events log at warn level.
func (a *AuditLogger) LogEvent(event AuditEventType, attrs ...slog.Attr) {
	if a == nil || !a.enabled {
		return
	}
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("audit_event", string(event)))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	switch event {
	case AuditAuthFailure, AuditAccessDenied, AuditInvalidPKCE, AuditRateLimitExceeded:
		a.logger.Warn("audit", args...)
	default:
		a.logger.Info("audit", args...)
	}
}

// LogTokenIssued records issuance of an access token for an identity.
func (a *AuditLogger) LogTokenIssued(clientID, username string) {
	a.LogEvent(AuditTokenIssued,
		slog.String("client_id", clientID),
		logging.UserHash(username))
}

// LogTokenRefreshed records a successful refresh grant.
func (a *AuditLogger) LogTokenRefreshed(clientID, username string) {
	a.LogEvent(AuditTokenRefreshed,
		slog.String("client_id", clientID),
		logging.UserHash(username))
}

// LogTokenRevoked records revocation of a token.
func (a *AuditLogger) LogTokenRevoked(clientID string) {
	a.LogEvent(AuditTokenRevoked, slog.String("client_id", clientID))
}

// LogAuthFailure records a failed authentication or grant attempt.
func (a *AuditLogger) LogAuthFailure(reason, clientID string) {
	a.LogEvent(AuditAuthFailure,
		slog.String("reason", reason),
		slog.String("client_id", clientID))
}

// LogAccessDenied records a policy denial for a verified identity.
func (a *AuditLogger) LogAccessDenied(username string) {
	a.LogEvent(AuditAccessDenied, logging.UserHash(username))
}

// LogInvalidPKCE records a failed PKCE verification.
func (a *AuditLogger) LogInvalidPKCE(clientID string) {
	a.LogEvent(AuditInvalidPKCE, slog.String("client_id", clientID))
}

// LogClientRegistered records a dynamic client registration.
func (a *AuditLogger) LogClientRegistered(clientID, clientName string) {
	a.LogEvent(AuditClientRegistered,
		slog.String("client_id", clientID),
		slog.String("client_name", clientName))
}

// LogRateLimitExceeded records a rate-limited request.
func (a *AuditLogger) LogRateLimitExceeded(ipHash, path string) {
	a.LogEvent(AuditRateLimitExceeded,
		slog.String("ip_hash", ipHash),
		slog.String("path", path))
}
