package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/pkg/errors"
	jwtutil "salesdesk/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body struct {
		Success bool              `json:"success"`
		Error   map[string]string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	return body.Error
}

func TestHandleErrorUsesApplicationErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales/x", nil)

	HandleError(rec, req, errors.NewNotFoundError("sale"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	errBody := decodeErrorBody(t, rec)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
	assert.Equal(t, "sale not found", errBody["message"])
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(rec, req, fmt.Errorf("mongo: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	errBody := decodeErrorBody(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", errBody["code"])
	assert.NotContains(t, errBody["message"], "mongo")
}

func TestHandleErrorMapsDeadlineExceededTo408(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)

	HandleError(rec, req, fmt.Errorf("failed to load sale: %w", context.DeadlineExceeded))

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	errBody := decodeErrorBody(t, rec)
	assert.Equal(t, "REQUEST_TIMEOUT", errBody["code"])
}

func TestHandleErrorUnwrapsApplicationError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)

	HandleError(rec, req, fmt.Errorf("handler: %w", errors.NewConflictError("email already registered")))

	assert.Equal(t, http.StatusConflict, rec.Code)
	errBody := decodeErrorBody(t, rec)
	assert.Equal(t, "CONFLICT", errBody["code"])
}

func TestRequestIDMiddleware(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	handler := Recoverer(zaptest.NewLogger(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errBody := decodeErrorBody(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", errBody["code"])
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	handler := limiter.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingOrBadTokens(t *testing.T) {
	manager := jwtutil.NewJWTManager("test-secret", time.Hour)
	handler := JWTAuth(manager)(okHandler())

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"malformed", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/sales", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTAuthStoresIdentityInContext(t *testing.T) {
	manager := jwtutil.NewJWTManager("test-secret", time.Hour)
	token, err := manager.GenerateToken("u-1", "Alice Costa", "alice@example.com", "Manager")
	require.NoError(t, err)

	var userID string
	var role aggregate.UserRole
	handler := JWTAuth(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ = GetUserID(r.Context())
		role, _ = GetUserRole(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, aggregate.RoleManager, role)
}

func TestRequireStaff(t *testing.T) {
	manager := jwtutil.NewJWTManager("test-secret", time.Hour)
	handler := JWTAuth(manager)(RequireStaff(okHandler()))

	tests := []struct {
		role string
		want int
	}{
		{"Manager", http.StatusOK},
		{"Admin", http.StatusOK},
		{"Customer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := manager.GenerateToken("u-1", "A", "a@b.c", tt.role)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/sales", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRolesWithoutAuthContext(t *testing.T) {
	handler := RequireAdmin(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
