package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/identity"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	id  identity.Identity
	err error
}

func (s stubProvider) Identify(*http.Request) (identity.Identity, error) { return s.id, s.err }

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		assert.Equal(t, w.Header().Get(middleware.HeaderRequestID), w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.HeaderRequestID, "rid-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "rid-123", w.Body.String())
	})
}

func TestIdentify(t *testing.T) {
	newRouter := func(p identity.Provider) *gin.Engine {
		r := gin.New()
		r.Use(middleware.Identify(p, zap.NewNop()))
		r.GET("/me", func(c *gin.Context) {
			id, ok := identity.FromContext(c.Request.Context())
			if !ok {
				c.String(http.StatusOK, "anonymous")
				return
			}
			c.String(http.StatusOK, id.Subject+"|"+contextutil.GetUserID(c.Request.Context())+"|"+c.GetString(middleware.ContextUserID))
		})
		return r
	}

	tests := []struct {
		name       string
		provider   identity.Provider
		wantStatus int
		wantBody   string
	}{
		{name: "identified", provider: stubProvider{id: identity.Identity{Subject: "emp1"}}, wantStatus: http.StatusOK, wantBody: "emp1|emp1|emp1"},
		{name: "anonymous", provider: stubProvider{err: identity.ErrNoIdentity}, wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "rejected", provider: stubProvider{err: errors.Join(identity.ErrInvalidCredentials, errors.New("expired"))}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(tt.provider).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitByIP(rate.Limit(1), 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitByIP_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitByIP(0, 0))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitByUser(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("User-Id"); uid != "" {
			c.Set(middleware.ContextUserID, uid)
		}
		c.Next()
	})
	r.Use(middleware.RateLimitByUser(rate.Limit(1), 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(uid string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if uid != "" {
			req.Header.Set("User-Id", uid)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("emp1"))
	assert.Equal(t, http.StatusTooManyRequests, send("emp1"))
	assert.Equal(t, http.StatusOK, send("emp2"))
	assert.Equal(t, http.StatusOK, send(""))
	assert.Equal(t, http.StatusOK, send(""))
}

type redismockClient struct {
	client *redis.Client
	calls  int
}

func TestIdempotency(t *testing.T) {
	const (
		cacheKey = "idemp:/leave-requests::abc"
		lockKey  = cacheKey + ":lock"
	)

	newRouter := func(db *redismockClient) *gin.Engine {
		r := gin.New()
		r.Use(middleware.Idempotency(db.client, zap.NewNop()))
		r.POST("/leave-requests", func(c *gin.Context) {
			db.calls++
			response.Success(c, http.StatusCreated, gin.H{"id": "req-1"}, nil)
		})
		return r
	}

	post := func(r *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("first request is stored", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		db := &redismockClient{client: client}

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.Regexp().ExpectSet(cacheKey, `.*`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(newRouter(db))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, db.calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		db := &redismockClient{client: client}

		stored, _ := json.Marshal(map[string]any{"status": 201, "body": map[string]string{"id": "req-1"}})
		mock.ExpectGet(cacheKey).SetVal(string(stored))

		w := post(newRouter(db))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get(middleware.HeaderIdempotentHit))
		assert.JSONEq(t, `{"id":"req-1"}`, w.Body.String())
		assert.Equal(t, 0, db.calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in flight", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		db := &redismockClient{client: client}

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := post(newRouter(db))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, db.calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		db := &redismockClient{client: client}

		w := httptest.NewRecorder()
		newRouter(db).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leave-requests", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, db.calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
