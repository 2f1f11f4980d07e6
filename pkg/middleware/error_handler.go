package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"salesdesk/pkg/errors"

	"go.uber.org/zap"
)

// Context key for request ID
type contextKey string

const requestIDKey contextKey = "requestID"

// Recoverer turns panics into 500 responses instead of dropping the
// connection.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
					)
					HandleError(w, r, errors.NewInternalError("Internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID generates a unique request ID for each request and exposes it in
// the X-Request-ID response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

// Timeout bounds each request's context.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimiter applies a sliding-window per-client request cap.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr
		now := time.Now()

		rl.mu.Lock()
		var valid []time.Time
		for _, t := range rl.requests[clientIP] {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		if len(valid) >= rl.limit {
			rl.requests[clientIP] = valid
			rl.mu.Unlock()
			HandleError(w, r, errors.NewTooManyRequestsError("Rate limit exceeded"))
			return
		}
		rl.requests[clientIP] = append(valid, now)
		rl.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs each request with method, path, status and duration.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// HandleError writes an error response. ApplicationError carries its own HTTP
// status; an expired request deadline maps to 408; anything else is reported
// as an internal error without leaking the message.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errors.ApplicationError
	if !stderrors.As(err, &appErr) {
		if stderrors.Is(err, context.DeadlineExceeded) {
			appErr = errors.NewRequestTimeoutError("Request timed out")
		} else {
			appErr = errors.NewInternalError("Internal server error")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"request_id": GetRequestID(r.Context()),
		"success":    false,
		"error": map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
		"timestamp": time.Now().UTC(),
	})
}
