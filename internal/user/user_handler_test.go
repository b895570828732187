package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/identity"
	"go-leave/internal/model"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserService struct {
	GetByIDFn    func(ctx context.Context, id string) (model.User, error)
	CreateFn     func(ctx context.Context, in model.InsertUser) (model.User, error)
	EnsureUserFn func(ctx context.Context, caller identity.Identity) (model.User, error)
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (model.User, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeUserService) Create(ctx context.Context, in model.InsertUser) (model.User, error) {
	return f.CreateFn(ctx, in)
}
func (f *fakeUserService) EnsureUser(ctx context.Context, caller identity.Identity) (model.User, error) {
	return f.EnsureUserFn(ctx, caller)
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Request = req
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUserHandler_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			GetByIDFn: func(ctx context.Context, id string) (model.User, error) {
				assert.Equal(t, "emp1", id)
				return john, nil
			},
		}
		c, w := newContext(http.MethodGet, "/api/users/emp1", "")
		c.Params = gin.Params{{Key: "id", Value: "emp1"}}

		user.NewHandler(svc, zap.NewNop()).GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "john.doe@company.com", got.Email)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeUserService{
			GetByIDFn: func(ctx context.Context, id string) (model.User, error) {
				return model.User{}, usererrors.ErrUserNotFound
			},
		}
		c, w := newContext(http.MethodGet, "/api/users/ghost", "")
		c.Params = gin.Params{{Key: "id", Value: "ghost"}}

		user.NewHandler(svc, zap.NewNop()).GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decodeError(t, w).Message)
	})
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeUserService{
			CreateFn: func(ctx context.Context, in model.InsertUser) (model.User, error) {
				assert.Equal(t, "alice.smith@company.com", in.Email)
				assert.Equal(t, model.RoleEmployee, in.Role)
				return model.NewUser("emp2", in, john.CreatedAt), nil
			},
		}
		c, w := newContext(http.MethodPost, "/api/users",
			`{"email":"alice.smith@company.com","name":"Alice Smith","role":"employee","department":"Marketing"}`)

		user.NewHandler(svc, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"emp2"`)
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &fakeUserService{}
		c, w := newContext(http.MethodPost, "/api/users", `{"email":"nope","name":"X","role":"admin","department":"General"}`)

		user.NewHandler(svc, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, apperror.CodeValidation, body.Code)
		assert.NotNil(t, body.Details)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/api/users", `{"email":`)

		user.NewHandler(&fakeUserService{}, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decodeError(t, w).Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := &fakeUserService{
			CreateFn: func(ctx context.Context, in model.InsertUser) (model.User, error) {
				return model.User{}, usererrors.ErrUserAlreadyExists
			},
		}
		c, w := newContext(http.MethodPost, "/api/users",
			`{"id":"emp1","email":"john.doe@company.com","name":"John Doe","role":"employee","department":"Engineering"}`)

		user.NewHandler(svc, zap.NewNop()).Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_Profile(t *testing.T) {
	t.Run("provisioned caller", func(t *testing.T) {
		svc := &fakeUserService{
			EnsureUserFn: func(ctx context.Context, caller identity.Identity) (model.User, error) {
				assert.Equal(t, "emp1", caller.Subject)
				return john, nil
			},
		}
		c, w := newContext(http.MethodGet, "/api/user/profile", "")
		c.Request = c.Request.WithContext(identity.WithContext(c.Request.Context(), identity.Identity{Subject: "emp1"}))

		user.NewHandler(svc, zap.NewNop()).Profile(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"John Doe"`)
	})

	t.Run("anonymous", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/api/user/profile", "")

		user.NewHandler(&fakeUserService{}, zap.NewNop()).Profile(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User ID is required", decodeError(t, w).Message)
	})
}
