package notification

import (
	"net/http"
	"strconv"

	"go-leave/internal/identity"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{svc: svc, logger: l}
}

func (h *Handler) ListMine(c *gin.Context) {
	caller, ok := identity.FromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "User ID is required", nil)
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	items, err := h.svc.ListMine(c.Request.Context(), caller.Subject, limit)
	if err != nil {
		h.logger.Error("list notifications failed", zap.String("user_id", caller.Subject), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Failed to fetch notifications", nil)
		return
	}
	response.Success(c, http.StatusOK, items, nil)
}
