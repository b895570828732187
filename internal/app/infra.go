package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-leave/internal/config"
	"go-leave/internal/health"
	"go-leave/internal/shared/connection"
	"go-leave/internal/storage"
	"go-leave/internal/storage/memory"
	"go-leave/internal/storage/postgres"
	"go-leave/internal/storage/redisdoc"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections opened for one process.
type Infra struct {
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
	Kafka  *kafkago.Writer

	closers []func() error
}

func (i *Infra) Close() error {
	var errs []error
	for n := len(i.closers) - 1; n >= 0; n-- {
		errs = append(errs, i.closers[n]())
	}
	return errors.Join(errs...)
}

func (i *Infra) connectPostgres(cfg config.DatabaseConfig, logger *zap.Logger) error {
	db, err := connection.ConnectGORMWithRetry(cfg.DSN(), cfg.MaxRetries)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	i.GormDB, i.SQLDB = db, sqlDB
	i.closers = append(i.closers, sqlDB.Close)

	return postgres.RunMigrations(sqlDB, logger)
}

func (i *Infra) connectRedis(cfg config.RedisConfig) error {
	rdb, err := connection.ConnectRedisWithRetry(connection.RedisOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, cfg.MaxRetries)
	if err != nil {
		return err
	}
	i.Redis = rdb
	i.closers = append(i.closers, rdb.Close)
	return nil
}

func (i *Infra) connectKafka(cfg config.KafkaConfig) error {
	w, err := connection.ConnectKafkaWithRetry(cfg.Broker, cfg.MaxRetries)
	if err != nil {
		return err
	}
	i.Kafka = w
	i.closers = append(i.closers, w.Close)
	return nil
}

// newStore picks the storage backend named by storage.driver.
func (i *Infra) newStore(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(memory.WithLogger(logger)), nil
	case config.DriverPostgres:
		return postgres.New(i.GormDB, postgres.WithLogger(logger)), nil
	case config.DriverRedis:
		return redisdoc.New(i.Redis, redisdoc.WithPrefix(cfg.Redis.Prefix), redisdoc.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (i *Infra) healthChecks() map[string]health.Check {
	checks := map[string]health.Check{}
	if i.SQLDB != nil {
		checks["postgres"] = i.SQLDB.PingContext
	}
	if i.Redis != nil {
		rdb := i.Redis
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
