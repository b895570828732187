package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LifecycleEvent records a process milestone such as start-up or shutdown.
type LifecycleEvent struct {
	Action  string
	Message string
	Meta    map[string]any
}

type LifecycleLogger interface {
	Log(ctx context.Context, event LifecycleEvent)
}

type ZapLifecycleLogger struct {
	logger *zap.Logger
}

func NewLifecycleLogger(logger *zap.Logger) *ZapLifecycleLogger {
	return &ZapLifecycleLogger{logger: logger.Named("lifecycle")}
}

func (l *ZapLifecycleLogger) Log(_ context.Context, event LifecycleEvent) {
	l.logger.Info("lifecycle event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", event.Action),
		zap.String("message", event.Message),
		zap.Any("meta", event.Meta),
	)
}
