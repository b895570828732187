package user

import (
	"net/http"

	"go-leave/internal/identity"
	"go-leave/internal/schema"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	usererrors "go-leave/internal/user/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("user request failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("user request failed", append(fields, zap.String("message", httpErr.Message))...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetByID(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req schema.InsertUserPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create user bind failed", zap.Error(err))
		h.writeError(c, usererrors.ErrInvalidRequestBody.WithCause(err))
		return
	}

	in, err := schema.ValidateInsertUser(req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	u, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, nil)
}

// Profile returns the caller's user record, provisioning it on first visit.
func (h *Handler) Profile(c *gin.Context) {
	caller, ok := identity.FromContext(c.Request.Context())
	if !ok {
		h.writeError(c, usererrors.ErrUserIDRequired)
		return
	}

	u, err := h.svc.EnsureUser(c.Request.Context(), caller)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, nil)
}
