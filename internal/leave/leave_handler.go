package leave

import (
	"net/http"
	"strconv"
	"time"

	"go-leave/internal/identity"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/model"
	"go-leave/internal/schema"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("leave request failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("leave request failed", fields...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func callerOf(c *gin.Context) (identity.Identity, bool) {
	return identity.FromContext(c.Request.Context())
}

func (h *Handler) bindFilter(c *gin.Context) (ListFilter, bool) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidFilter.WithCause(err))
		return ListFilter{}, false
	}
	return filter, true
}

// writeList pages the result only when the client asks for it, so plain
// listings stay complete arrays.
func writeList(c *gin.Context, reqs []model.LeaveRequest) {
	_, hasPage := c.GetQuery("page")
	_, hasSize := c.GetQuery("page_size")
	if !hasPage && !hasSize {
		response.Success(c, http.StatusOK, reqs, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Compare page numbers before multiplying so a huge page cannot overflow.
	start, end := len(reqs), len(reqs)
	totalPages := (len(reqs) + pageSize - 1) / pageSize
	if page-1 < totalPages {
		start = (page - 1) * pageSize
		end = min(start+pageSize, len(reqs))
	}

	meta := response.NewPaginationMeta(int64(len(reqs)), page, pageSize)
	response.Success(c, http.StatusOK, reqs[start:end], &meta)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	reqs, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	writeList(c, reqs)
}

func (h *Handler) GetMine(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		h.writeServiceError(c, leaveerrors.ErrUserIDRequired)
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	reqs, err := h.service.GetMine(c.Request.Context(), caller, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	writeList(c, reqs)
}

func (h *Handler) Create(c *gin.Context) {
	var req schema.InsertLeaveRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidRequestBody.WithCause(err))
		return
	}

	if caller, ok := callerOf(c); ok {
		h.fillFromCaller(c, caller, &req)
	}

	in, err := schema.ValidateInsertLeaveRequest(req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// fillFromCaller completes a submission from the caller's user record. Values
// the client sent are kept.
func (h *Handler) fillFromCaller(c *gin.Context, caller identity.Identity, req *schema.InsertLeaveRequestPayload) {
	hasEmployeeID := req.EmployeeID != nil && *req.EmployeeID != ""
	if req.UserID != "" && hasEmployeeID && req.EmployeeName != "" && req.Department != "" {
		return
	}

	u, err := h.service.Caller(c.Request.Context(), caller)
	if err != nil {
		h.logger.Warn("resolve caller for submission failed", zap.String("user_id", caller.Subject), zap.Error(err))
		return
	}

	if req.UserID == "" {
		req.UserID = u.ID
	}
	if !hasEmployeeID {
		employeeID := u.EmployeeID
		if employeeID == "" {
			employeeID = u.ID
		}
		req.EmployeeID = &employeeID
	}
	if req.EmployeeName == "" {
		req.EmployeeName = u.Name
	}
	if req.Department == "" {
		req.Department = u.Department
	}
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req schema.UpdateLeaveRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidRequestBody.WithCause(err))
		return
	}

	upd, err := schema.ValidateUpdateLeaveRequest(req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	caller, _ := callerOf(c)
	resp, err := h.service.Update(c.Request.Context(), caller, c.Param("id"), upd)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Stats(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, nil)
}

func (h *Handler) Export(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	reqs, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	buf, err := WriteXLSX(reqs)
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrExportFailed.WithCause(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFileName(time.Now())+`"`)
	c.Data(http.StatusOK, ExportContentType, buf.Bytes())
}
