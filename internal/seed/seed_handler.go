package seed

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	"go-leave/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const HeaderSetupToken = "X-Setup-Token"

type Handler struct {
	store     storage.Storage
	tokenHash []byte
	logger    *zap.Logger
}

// NewHandler guards /setup with a bcrypt hash of the setup token. An empty
// hash leaves the endpoint open.
func NewHandler(store storage.Storage, tokenHash string, logger ...*zap.Logger) *Handler {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{store: store, tokenHash: []byte(tokenHash), logger: l}
}

func (h *Handler) Setup(c *gin.Context) {
	if len(h.tokenHash) > 0 {
		token := c.GetHeader(HeaderSetupToken)
		if token == "" || bcrypt.CompareHashAndPassword(h.tokenHash, []byte(token)) != nil {
			h.logger.Warn("setup rejected", zap.String("client_ip", c.ClientIP()))
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid setup token", nil)
			return
		}
	}

	res, err := Run(c.Request.Context(), h.store, h.logger)
	if err != nil {
		h.logger.Error("setup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Failed to setup sample data", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":         "Setup completed successfully",
		"usersCreated":    res.UsersCreated,
		"requestsCreated": res.RequestsCreated,
	}, nil)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/setup", handler.Setup)
}
