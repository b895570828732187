package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/identity"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/model"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeLeaveService struct {
	createFn  func(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error)
	getAllFn  func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error)
	getMineFn func(ctx context.Context, caller identity.Identity, filter leave.ListFilter) ([]model.LeaveRequest, error)
	getByIDFn func(ctx context.Context, id string) (model.LeaveRequest, error)
	updateFn  func(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error)
	deleteFn  func(ctx context.Context, id string) error
	statsFn   func(ctx context.Context, filter leave.ListFilter) (leave.Stats, error)
	callerFn  func(ctx context.Context, caller identity.Identity) (model.User, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
	return f.createFn(ctx, in)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) {
	return f.getAllFn(ctx, filter)
}
func (f *fakeLeaveService) GetMine(ctx context.Context, caller identity.Identity, filter leave.ListFilter) ([]model.LeaveRequest, error) {
	return f.getMineFn(ctx, caller, filter)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (model.LeaveRequest, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) Update(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
	return f.updateFn(ctx, caller, id, upd)
}
func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeLeaveService) Stats(ctx context.Context, filter leave.ListFilter) (leave.Stats, error) {
	return f.statsFn(ctx, filter)
}
func (f *fakeLeaveService) Caller(ctx context.Context, caller identity.Identity) (model.User, error) {
	return f.callerFn(ctx, caller)
}

func newTestContext(method, target, body string, caller *identity.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if caller != nil {
		req = req.WithContext(identity.WithContext(req.Context(), *caller))
	}
	c.Request = req
	return c, w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLeaveHandler_Create(t *testing.T) {
	const fullBody = `{"userId":"emp1","employeeId":"EMP001","employeeName":"John Doe","department":"Engineering",
		"leaveType":"sick","fromDate":"2024-12-10","toDate":"2024-12-12","reason":"Fever and flu symptoms"}`

	t.Run("created", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
				assert.Equal(t, "emp1", in.UserID)
				assert.Equal(t, model.LeaveTypeSick, in.LeaveType)
				return sampleRequest("req-1", in.UserID, model.StatusPending, in.Department), nil
			},
		}
		c, w := newTestContext(http.MethodPost, "/api/leave-requests", fullBody, nil)

		leave.NewHandler(svc, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got model.LeaveRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Equal(t, "2024-12-10", got.FromDate.String())
	})

	t.Run("snapshot filled from caller", func(t *testing.T) {
		svc := &fakeLeaveService{
			callerFn: func(ctx context.Context, caller identity.Identity) (model.User, error) {
				assert.Equal(t, "emp1", caller.Subject)
				return john, nil
			},
			createFn: func(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
				assert.Equal(t, "emp1", in.UserID)
				assert.Equal(t, "EMP001", in.EmployeeID)
				assert.Equal(t, "John Doe", in.EmployeeName)
				assert.Equal(t, "Engineering", in.Department)
				return sampleRequest("req-1", in.UserID, model.StatusPending, in.Department), nil
			},
		}
		body := `{"leaveType":"annual","fromDate":"2024-12-23","toDate":"2024-12-27","reason":"Christmas holidays"}`
		c, w := newTestContext(http.MethodPost, "/api/leave-requests", body, &identity.Identity{Subject: "emp1"})

		leave.NewHandler(svc, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		body := `{"userId":"emp1","employeeId":"EMP001","employeeName":"John Doe","department":"Engineering",
			"leaveType":"vacation","fromDate":"2024-12-10","toDate":"2024-12-12","reason":""}`
		c, w := newTestContext(http.MethodPost, "/api/leave-requests", body, nil)

		leave.NewHandler(&fakeLeaveService{}, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errBody := decodeErrorBody(t, w)
		assert.Equal(t, apperror.CodeValidation, errBody.Code)
		assert.Contains(t, w.Body.String(), `"field":"leaveType"`)
		assert.Contains(t, w.Body.String(), `"field":"reason"`)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/api/leave-requests", `{`, nil)

		leave.NewHandler(&fakeLeaveService{}, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request data", decodeErrorBody(t, w).Message)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	reqs := make([]model.LeaveRequest, 0, 5)
	for _, id := range []string{"r5", "r4", "r3", "r2", "r1"} {
		reqs = append(reqs, sampleRequest(id, "emp1", model.StatusPending, "Engineering"))
	}

	t.Run("plain array without paging", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) {
				assert.Equal(t, leave.ListFilter{Status: model.StatusPending, Department: "Engineering"}, filter)
				return reqs, nil
			},
		}
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/all?status=pending&department=Engineering", "", nil)

		leave.NewHandler(svc, zap.NewNop()).GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []model.LeaveRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 5)
		assert.Empty(t, w.Header().Get(response.HeaderTotalCount))
	})

	t.Run("paged", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) { return reqs, nil },
		}
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/all?page=2&page_size=2", "", nil)

		leave.NewHandler(svc, zap.NewNop()).GetAll(c)

		var got []model.LeaveRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "r3", got[0].ID)
		assert.Equal(t, "5", w.Header().Get(response.HeaderTotalCount))
		assert.Equal(t, "3", w.Header().Get(response.HeaderTotalPages))
	})

	t.Run("page past the end", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) { return reqs, nil },
		}
		for _, page := range []string{"4", "4611686018427387904", "9223372036854775807"} {
			c, w := newTestContext(http.MethodGet, "/api/leave-requests/all?page="+page+"&page_size=4", "", nil)

			leave.NewHandler(svc, zap.NewNop()).GetAll(c)

			require.Equal(t, http.StatusOK, w.Code, "page=%s", page)
			assert.Equal(t, "[]", w.Body.String(), "page=%s", page)
			assert.Equal(t, "5", w.Header().Get(response.HeaderTotalCount))
		}
	})

	t.Run("page size is capped", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) { return reqs, nil },
		}
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/all?page=1&page_size=9223372036854775807", "", nil)

		leave.NewHandler(svc, zap.NewNop()).GetAll(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "100", w.Header().Get(response.HeaderPageSize))
		var got []model.LeaveRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 5)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) {
				return []model.LeaveRequest{}, nil
			},
		}
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/all", "", nil)

		leave.NewHandler(svc, zap.NewNop()).GetAll(c)

		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) {
				return nil, leaveerrors.ErrFetchFailed
			},
		}
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/all", "", nil)

		leave.NewHandler(svc, zap.NewNop()).GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to fetch leave requests", decodeErrorBody(t, w).Message)
	})
}

func TestLeaveHandler_GetMine(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/my-requests", "", nil)

		leave.NewHandler(&fakeLeaveService{}, zap.NewNop()).GetMine(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User ID is required", decodeErrorBody(t, w).Message)
	})

	t.Run("caller", func(t *testing.T) {
		svc := &fakeLeaveService{
			getMineFn: func(ctx context.Context, caller identity.Identity, filter leave.ListFilter) ([]model.LeaveRequest, error) {
				assert.Equal(t, "emp1", caller.Subject)
				return []model.LeaveRequest{sampleRequest("req-1", "emp1", model.StatusPending, "Engineering")}, nil
			},
		}
		c, w := newTestContext(http.MethodGet, "/api/leave-requests/my-requests", "", &identity.Identity{Subject: "emp1"})

		leave.NewHandler(svc, zap.NewNop()).GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"req-1"`)
	})
}

func TestLeaveHandler_Update(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateFn: func(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
				assert.Equal(t, "req-1", id)
				assert.Equal(t, "hr1", caller.Subject)
				assert.Equal(t, model.StatusRejected, upd.Status)
				return upd.Apply(sampleRequest(id, "emp1", model.StatusPending, "Engineering")), nil
			},
		}
		c, w := newTestContext(http.MethodPatch, "/api/leave-requests/req-1",
			`{"status":"rejected","rejectionReason":"Insufficient documentation"}`, &identity.Identity{Subject: "hr1"})
		c.Params = gin.Params{{Key: "id", Value: "req-1"}}

		leave.NewHandler(svc, zap.NewNop()).Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"rejectionReason":"Insufficient documentation"`)
	})

	t.Run("reject without reason", func(t *testing.T) {
		c, w := newTestContext(http.MethodPatch, "/api/leave-requests/req-1", `{"status":"rejected"}`, nil)
		c.Params = gin.Params{{Key: "id", Value: "req-1"}}

		leave.NewHandler(&fakeLeaveService{}, zap.NewNop()).Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"rejectionReason"`)
	})

	t.Run("conflict carries statuses", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateFn: func(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
				return model.LeaveRequest{}, leaveerrors.ErrStatusConflict.WithDetails(leave.ConflictDetails{
					ID: id, Expected: model.StatusPending, Actual: model.StatusApproved,
				})
			},
		}
		c, w := newTestContext(http.MethodPatch, "/api/leave-requests/req-2", `{"status":"approved"}`, nil)
		c.Params = gin.Params{{Key: "id", Value: "req-2"}}

		leave.NewHandler(svc, zap.NewNop()).Update(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"actualStatus":"approved"`)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateFn: func(ctx context.Context, caller identity.Identity, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
				return model.LeaveRequest{}, leaveerrors.ErrLeaveNotFound
			},
		}
		c, w := newTestContext(http.MethodPatch, "/api/leave-requests/nope", `{"status":"approved"}`, nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}

		leave.NewHandler(svc, zap.NewNop()).Update(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "missing", err: leaveerrors.ErrLeaveNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLeaveService{deleteFn: func(ctx context.Context, id string) error { return tt.err }}
			c, w := newTestContext(http.MethodDelete, "/api/leave-requests/req-1", "", nil)
			c.Params = gin.Params{{Key: "id", Value: "req-1"}}

			leave.NewHandler(svc, zap.NewNop()).Delete(c)
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLeaveHandler_Stats(t *testing.T) {
	svc := &fakeLeaveService{
		statsFn: func(ctx context.Context, filter leave.ListFilter) (leave.Stats, error) {
			return leave.Stats{Total: 3, Pending: 2, Approved: 1}, nil
		},
	}
	c, w := newTestContext(http.MethodGet, "/api/leave-requests/stats", "", nil)

	leave.NewHandler(svc, zap.NewNop()).Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"pending":2,"approved":1,"rejected":0}`, w.Body.String())
}

func TestLeaveHandler_Export(t *testing.T) {
	svc := &fakeLeaveService{
		getAllFn: func(ctx context.Context, filter leave.ListFilter) ([]model.LeaveRequest, error) {
			return []model.LeaveRequest{
				sampleRequest("req-1", "emp1", model.StatusPending, "Engineering"),
				sampleRequest("req-2", "emp2", model.StatusApproved, "Marketing"),
			}, nil
		},
	}
	c, w := newTestContext(http.MethodGet, "/api/leave-requests/export", "", nil)

	leave.NewHandler(svc, zap.NewNop()).Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, leave.ExportContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "leave-requests-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leave Requests")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "req-2", rows[2][0])
	assert.Equal(t, "3", rows[1][7])
}
