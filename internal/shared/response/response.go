package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
	HeaderTotalPages = "X-Total-Pages"
)

type PaginationMeta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes data as the bare response body. Pagination, when present,
// travels in headers so list bodies stay plain arrays.
func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	if meta != nil {
		c.Header(HeaderTotalCount, strconv.FormatInt(meta.Total, 10))
		c.Header(HeaderPage, strconv.Itoa(meta.Page))
		c.Header(HeaderPageSize, strconv.Itoa(meta.PageSize))
		c.Header(HeaderTotalPages, strconv.Itoa(meta.TotalPages))
	}
	c.JSON(status, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ErrorBody{
		Code:    errorCode,
		Message: message,
		Details: details,
	})
}

// AbortError is Error for middleware: it stops the handler chain.
func AbortError(c *gin.Context, status int, errorCode string, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Code: errorCode, Message: message})
}
