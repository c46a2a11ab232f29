// Package notify holds the billing.Notifier sinks used by the BFF.
package notify

import (
	"context"

	"go.uber.org/zap"

	"clinic-billing/internal/domain/billing"
)

// Logger writes every event to zap. Errors are logged at warn level.
type Logger struct {
	log *zap.Logger
}

func NewLogger(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{log: l.Named("billing.events")}
}

func (n *Logger) Notify(_ context.Context, ev billing.Event) {
	fields := []zap.Field{
		zap.String("event_id", ev.ID.String()),
		zap.String("op", string(ev.Operation)),
		zap.String("tenant", ev.TenantSlug),
		zap.String("title", ev.Title),
		zap.String("description", ev.Description),
	}
	if ev.Type == billing.EventError {
		fields = append(fields, zap.String("kind", string(ev.Kind)), zap.Error(ev.Err))
		n.log.Warn("billing event", fields...)
		return
	}
	n.log.Info("billing event", fields...)
}

// Fanout delivers each event to every sink in order.
type Fanout []billing.Notifier

func (f Fanout) Notify(ctx context.Context, ev billing.Event) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}
