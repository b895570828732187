package leave

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the leave API. Static paths are registered before
// /:id so they are never captured as ids. rdb enables Idempotency-Key
// support on submissions and may be nil.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb redis.Cmdable) {
	leaves := r.Group("/leave-requests")
	{
		leaves.GET("/all", handler.GetAll)
		leaves.GET("/my-requests", handler.GetMine)
		leaves.GET("/stats", handler.Stats)
		leaves.GET("/export", middleware.RateLimitByUser(0.2, 2), handler.Export)

		submit := []gin.HandlerFunc{middleware.RateLimitByUser(1, 5)}
		if rdb != nil {
			submit = append(submit, middleware.Idempotency(rdb, handler.logger))
		}
		leaves.POST("", append(submit, handler.Create)...)

		leaves.GET("/:id", handler.GetByID)
		leaves.PATCH("/:id", handler.Update)
		leaves.DELETE("/:id", handler.Delete)
	}
}
