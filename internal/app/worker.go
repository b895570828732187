package app

import (
	"context"
	"errors"

	"go-leave/internal/config"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"

	"go.uber.org/zap"
)

// RunWorker drains the outbox to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")
	if cfg.Kafka.Publisher != config.PublisherOutbox {
		return errors.New("worker requires kafka.publisher=outbox")
	}

	infra := &Infra{}
	defer infra.Close()

	if err := infra.connectPostgres(cfg.Database, logger); err != nil {
		return err
	}
	if err := infra.connectKafka(cfg.Kafka); err != nil {
		return err
	}

	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(infra.SQLDB), infra.Kafka, logger, cfg.Kafka.PollInterval)

	log.Info("worker shutting down")
	return nil
}
