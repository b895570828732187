package user

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/user/profile", middleware.RateLimitByUser(5, 10), handler.Profile)

	users := r.Group("/users")
	{
		users.GET("/:id", handler.GetByID)
		users.POST("", middleware.RateLimitByUser(1, 5), handler.Create)
	}
}
