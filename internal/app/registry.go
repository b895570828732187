package app

import (
	"go-leave/internal/config"
	"go-leave/internal/health"
	"go-leave/internal/identity"
	"go-leave/internal/leave"
	"go-leave/internal/notification"
	"go-leave/internal/seed"
	"go-leave/internal/storage"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type modules struct {
	store     storage.Storage
	infra     *Infra
	policy    *identity.RolePolicy
	publisher leave.EventPublisher
	cfg       *config.Config
	logger    *zap.Logger
}

func registerModules(router *gin.Engine, m modules) {
	// A nil *redis.Client must not reach code that checks the interface for nil.
	var rdb redis.Cmdable
	if m.infra.Redis != nil {
		rdb = m.infra.Redis
	}

	// --- Services ---
	userService := user.NewService(m.store, identity.NewProvisioner(m.policy), m.logger.Named("user.service"))
	leaveService := leave.NewService(m.store, userService, leave.Options{
		AllowRedecide: m.cfg.Leave.AllowRedecide,
		Publisher:     m.publisher,
		Cache:         rdb,
		CacheTTL:      m.cfg.Redis.CacheTTL,
	}, m.logger.Named("leave.service"))

	// --- Handlers ---
	userHandler := user.NewHandler(userService, m.logger.Named("user.handler"))
	leaveHandler := leave.NewHandler(leaveService, m.logger.Named("leave.handler"))
	seedHandler := seed.NewHandler(m.store, m.cfg.Setup.TokenHash, m.logger)

	healthHandler := health.NewHandler(m.infra.healthChecks(), m.logger.Named("health.handler"))

	// --- Routes Registration ---
	health.RegisterRoutes(router, healthHandler)

	api := router.Group("/api")
	{
		user.RegisterRoutes(api, userHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		seed.RegisterRoutes(api, seedHandler)

		if rdb != nil {
			notificationService := notification.NewService(
				notification.NewRedisRepository(rdb, m.cfg.Redis.NotificationCap),
				m.logger.Named("notification.service"),
			)
			notification.RegisterRoutes(api, notification.NewHandler(notificationService, m.logger.Named("notification.handler")))
		}
	}
}
