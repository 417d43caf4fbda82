package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventTokenIssued        EventType = "token_issued"
	EventTokenRevoked       EventType = "token_revoked"
	EventTokenReactivated   EventType = "token_reactivated"
	EventTokenDeleted       EventType = "token_deleted"
	EventTokenRejected      EventType = "token_rejected"
	EventPermissionDenied   EventType = "permission_denied"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventPortfolioExported  EventType = "portfolio_exported"
	EventPortfolioImported  EventType = "portfolio_imported"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "user_id", "token_id", "ip", "secret_hash"
	SubjectValue string // never a raw secret
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as structured zap entries.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *SecurityLogger

// InitSecurityLogger initializes the security logger with Zap
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	defaultLogger = NewSecurityLogger(logger, serviceName, environment)
	return defaultLogger
}

func NewSecurityLogger(zl *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

// DefaultLogger returns the default security logger instance
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return InitSecurityLogger("portfolio-backend", getEnvironment())
	}
	return defaultLogger
}

// Log logs a security event at the level derived from its severity.
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	severity := GetSeverity(event.Event)
	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(severity)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(severity.zapLevel(), string(event.Event), fields...)
}

// LogTokenIssued records a new recruiter token. Only its id is logged.
func (sl *SecurityLogger) LogTokenIssued(ctx context.Context, ownerID, tokenID string, expiresAt time.Time) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventTokenIssued,
		SubjectType:  "token_id",
		SubjectValue: tokenID,
		Details:      map[string]interface{}{"owner_id": ownerID, "expires_at": expiresAt.UTC().Format(time.RFC3339)},
	})
}

// LogTokenStateChanged records revoke, reactivate and delete actions.
func (sl *SecurityLogger) LogTokenStateChanged(ctx context.Context, event EventType, ownerID, tokenID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "token_id",
		SubjectValue: tokenID,
		Details:      map[string]interface{}{"owner_id": ownerID},
	})
}

// LogTokenRejected records a failed validation. The secret is hashed.
func (sl *SecurityLogger) LogTokenRejected(ctx context.Context, secret, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventTokenRejected,
		SubjectType:  "secret_hash",
		SubjectValue: HashValue(secret),
		Details:      map[string]interface{}{"reason": reason},
	})
}

// LogPermissionDenied records an owner trying to act on someone else's resource.
func (sl *SecurityLogger) LogPermissionDenied(ctx context.Context, actorID, resource, resourceID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventPermissionDenied,
		SubjectType:  "user_id",
		SubjectValue: actorID,
		Details:      map[string]interface{}{"resource": resource, "resource_id": resourceID},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogUnauthorized logs a rejected bearer token.
func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventUnauthorizedAccess,
		SubjectType: "ip",
		IP:          ip,
		UserAgent:   userAgent,
		RequestID:   requestID,
		Details:     map[string]interface{}{"reason": reason},
	})
}

// LogSnapshot records an export or import of an owner's portfolio.
func (sl *SecurityLogger) LogSnapshot(ctx context.Context, event EventType, ownerID string, details map[string]interface{}) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: ownerID,
		Details:      details,
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// HashValue creates a SHA256 hash of a value (for logging without secrets)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}

func getEnvironment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
