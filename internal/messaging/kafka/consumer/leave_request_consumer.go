package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"

	"go.uber.org/zap"
)

// Recorder turns a lifecycle event into a notification.
type Recorder interface {
	Record(ctx context.Context, event events.LeaveRequestEvent) (bool, error)
}

// ConsumeLeaveRequestLifecycle reads lifecycle events until ctx is cancelled.
// Undecodable messages are committed and skipped; a failed Record leaves the
// message uncommitted.
func ConsumeLeaveRequestLifecycle(
	ctx context.Context,
	reader kafka.MessageReader,
	recorder Recorder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_request_lifecycle")
	log.Info("leave request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave request lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave request message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave request event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		recorded, err := recorder.Record(ctx, event)
		if err != nil {
			log.Error("record notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave request message failed", zap.Error(err))
			continue
		}

		log.Debug("leave request event consumed",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("event_type", event.EventType),
			zap.Bool("notified", recorded),
		)
	}
}
