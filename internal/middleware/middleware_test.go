package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Auth:      config.Auth{JWTSecret: "0123456789abcdef0123"},
		Server:    config.Server{AdminToken: "admin-secret"},
		RateLimit: config.RateLimit{RequestsPerSecond: 1, Burst: 2},
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": UserID(ctx), "request_id": ctx.GetString(ContextRequestID)})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	auth := NewAuth(testConfig())
	valid, err := auth.IssueToken("user-42", time.Hour)
	require.NoError(t, err)
	expired, err := auth.IssueToken("user-42", -time.Minute)
	require.NoError(t, err)
	otherSecret, err := NewAuth(&config.Config{Auth: config.Auth{JWTSecret: "another-secret-value"}}).IssueToken("user-42", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("0123456789abcdef0123"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-42"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"alg none", "Bearer " + unsigned, http.StatusUnauthorized},
	}

	r := newRouter(auth.RequireUser())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user_id":"user-42"`)
				return
			}
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "unauthenticated", body.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(NewAuth(testConfig()).RequireAdmin())
	assert.Equal(t, http.StatusOK, do(r, map[string]string{adminTokenHeader: "admin-secret"}).Code)
	assert.Equal(t, http.StatusForbidden, do(r, map[string]string{adminTokenHeader: "guess"}).Code)
	assert.Equal(t, http.StatusForbidden, do(r, nil).Code)

	disabled := newRouter(NewAuth(&config.Config{}).RequireAdmin())
	assert.Equal(t, http.StatusForbidden, do(disabled, map[string]string{adminTokenHeader: ""}).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := newRouter(func(ctx *gin.Context) { ctx.Set(ContextUserID, ctx.GetHeader("X-User")) }, rl.Middleware())

	assert.Equal(t, http.StatusOK, do(r, map[string]string{"X-User": "a"}).Code)
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"X-User": "a"}).Code)
	limited := do(r, map[string]string{"X-User": "a"})
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), "rate_limited")

	assert.Equal(t, http.StatusOK, do(r, map[string]string{"X-User": "b"}).Code, "buckets are per user")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"X-User": "a"}).Code, "tokens refill")

	now = now.Add(time.Hour)
	rl.Allow("c")
	rl.mu.Lock()
	_, kept := rl.limiters["a"]
	rl.mu.Unlock()
	assert.False(t, kept, "idle limiters are evicted")
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := do(r, map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)

	minted := do(r, nil).Header().Get(RequestIDHeader)
	assert.Len(t, minted, 36)
}

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		name         string
		limit        time.Duration
		wantDeadline bool
	}{
		{name: "limit applied", limit: time.Minute, wantDeadline: true},
		{name: "disabled", limit: 0, wantDeadline: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deadline time.Time
			var hasDeadline bool
			r := gin.New()
			r.GET("/x", RequestTimeout(tt.limit), func(ctx *gin.Context) {
				deadline, hasDeadline = ctx.Request.Context().Deadline()
				ctx.Status(http.StatusNoContent)
			})

			start := time.Now()
			w := do(r, nil)
			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.wantDeadline, hasDeadline)
			if tt.wantDeadline {
				assert.WithinDuration(t, start.Add(tt.limit), deadline, 5*time.Second)
			}
		})
	}
}
