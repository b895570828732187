package middleware

import (
	"errors"
	"net/http"

	"go-leave/internal/identity"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUserID is the gin key holding the caller's subject.
const ContextUserID = "user_id"

// Identify resolves the caller through provider. Requests without
// credentials pass through anonymous; routes that need a caller reject them.
// Rejected credentials stop the chain with 401.
func Identify(provider identity.Provider, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("middleware.identity")
	return func(c *gin.Context) {
		id, err := provider.Identify(c.Request)
		switch {
		case errors.Is(err, identity.ErrNoIdentity):
			c.Next()
			return
		case err != nil:
			log.Warn("caller credentials rejected", zap.String("path", c.FullPath()), zap.Error(err))
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid credentials")
			return
		}

		c.Set(ContextUserID, id.Subject)
		ctx := identity.WithContext(c.Request.Context(), id)
		ctx = contextutil.WithUserID(ctx, id.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
