package app

import (
	"context"
	"errors"

	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer turns lifecycle events into notifications until ctx is
// cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")
	if !cfg.Redis.Enabled {
		return errors.New("consumer requires redis.enabled")
	}

	infra := &Infra{}
	defer infra.Close()

	if err := infra.connectRedis(cfg.Redis); err != nil {
		return err
	}

	notificationService := notification.NewService(
		notification.NewRedisRepository(infra.Redis, cfg.Redis.NotificationCap),
		logger.Named("notification.service"),
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LeaveRequestTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeLeaveRequestLifecycle(ctx, reader, notificationService, logger)

	log.Info("consumer shutting down")
	return nil
}
