package security

import "go.uber.org/zap/zapcore"

// Severity is derived from EventType, never supplied by callers.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventTokenIssued:       SeverityINFO,
	EventTokenReactivated:  SeverityINFO,
	EventPortfolioExported: SeverityINFO,

	EventTokenRevoked:      SeverityMEDIUM,
	EventTokenDeleted:      SeverityMEDIUM,
	EventPortfolioImported: SeverityMEDIUM,

	EventTokenRejected:      SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,

	EventPermissionDenied:   SeverityHIGH,
	EventUnauthorizedAccess: SeverityHIGH,
}

// GetSeverity returns the severity for an event type
// If the event type is not mapped, defaults to MEDIUM
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO, SeverityMEDIUM:
		return zapcore.InfoLevel
	case SeverityWARN:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
