// Package app wires configuration, infrastructure and modules into the
// api, worker and consumer processes.
package app

import (
	"context"
	"fmt"

	"go-leave/internal/config"
	"go-leave/internal/identity"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/model"
	"go-leave/internal/seed"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects what the configuration asks for, registers every module
// on router and returns the infrastructure so the caller can close it.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	infra := &Infra{}
	ok := false
	defer func() {
		if !ok {
			_ = infra.Close()
		}
	}()

	if cfg.Storage.Driver == config.DriverPostgres {
		if err := infra.connectPostgres(cfg.Database, logger); err != nil {
			return nil, err
		}
	}
	if cfg.Redis.Enabled {
		if err := infra.connectRedis(cfg.Redis); err != nil {
			return nil, err
		}
	}
	if cfg.Kafka.Publisher == config.PublisherKafka {
		if err := infra.connectKafka(cfg.Kafka); err != nil {
			return nil, err
		}
	}

	store, err := infra.newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	provider, err := newIdentityProvider(cfg.Identity)
	if err != nil {
		return nil, err
	}
	policy, err := newRolePolicy(cfg.Identity.RoleRules)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Seed {
		if _, err := seed.Run(ctx, store, logger); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	if cfg.Setup.TokenHash == "" {
		logger.Warn("setup route is not protected; set setup.token_hash")
	}

	router.Use(
		middleware.RequestID(),
		middleware.Identify(provider, logger),
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst),
	)

	registerModules(router, modules{
		store:     store,
		infra:     infra,
		policy:    policy,
		publisher: newPublisher(cfg.Kafka.Publisher, infra),
		cfg:       cfg,
		logger:    logger,
	})

	ok = true
	return infra, nil
}

func newIdentityProvider(cfg config.IdentityConfig) (identity.Provider, error) {
	var chain identity.ChainProvider
	if cfg.JWTSecret != "" {
		chain = append(chain, identity.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer))
	}
	if cfg.HeaderAuth {
		chain = append(chain, identity.HeaderProvider{})
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("no identity provider configured")
	}
	return chain, nil
}

func newRolePolicy(rules []config.RoleRule) (*identity.RolePolicy, error) {
	out := make([]identity.RoleRule, len(rules))
	for i, r := range rules {
		out[i] = identity.RoleRule{Claim: r.Claim, Value: r.Value, Role: model.Role(r.Role)}
	}
	return identity.NewRolePolicy(out)
}

func newPublisher(mode string, infra *Infra) leave.EventPublisher {
	switch mode {
	case config.PublisherKafka:
		return leave.NewKafkaEventPublisher(infra.Kafka)
	case config.PublisherOutbox:
		return leave.NewOutboxEventPublisher(kafka.NewOutboxRepository(infra.SQLDB))
	default:
		return leave.NewNoopEventPublisher()
	}
}
