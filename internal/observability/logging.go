// Package observability provides audit logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

var auditLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetAuditLogger replaces the logger used for moderation audit records.
// The server wires the application's context-aware logger here at startup.
func SetAuditLogger(l *slog.Logger) {
	if l != nil {
		auditLogger = l
	}
}

// AuditEvent describes one privileged action.
type AuditEvent struct {
	ActorID    uint
	Action     string
	TargetType string
	TargetID   uint
	Fields     map[string]interface{}
}

// Audit writes a structured record of a moderation or cascade action.
func Audit(ctx context.Context, ev AuditEvent) {
	attrs := []any{
		slog.Uint64("actor_id", uint64(ev.ActorID)),
		slog.String("action", ev.Action),
		slog.String("target_type", ev.TargetType),
		slog.Uint64("target_id", uint64(ev.TargetID)),
	}
	for k, v := range ev.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	auditLogger.InfoContext(ctx, "audit", attrs...)
}
