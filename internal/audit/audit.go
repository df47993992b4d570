package audit

import (
	"context"
	"log/slog"
)

// Event types.
const (
	TypeConfigParse = "config_parse"
	TypeConfigInit  = "config_init"
	TypeToolCall    = "tool_call"
	TypeToolDenied  = "tool_denied"
)

// Event represents an audit entry for config reads, writes and tool calls.
type Event struct {
	// Type describes the event kind.
	Type string
	// Tool is the MCP tool name, empty for CLI calls.
	Tool string
	// CorrelationID links related events.
	CorrelationID string
	// Path is the config file involved.
	Path string
	// Outcome summarizes the result (valid, invalid, created, exists, error).
	Outcome string
	// Reason provides additional context.
	Reason string
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(ctx context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.InfoContext(ctx, "audit",
		"type", event.Type,
		"tool", event.Tool,
		"correlation_id", event.CorrelationID,
		"path", event.Path,
		"outcome", event.Outcome,
		"reason", event.Reason,
	)
}
