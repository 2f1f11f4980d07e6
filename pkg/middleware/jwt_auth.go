package middleware

import (
	"context"
	"net/http"
	"strings"

	"salesdesk/pkg/errors"
	jwtutil "salesdesk/pkg/jwt"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "user_id"
	// EmailKey is the context key for email
	EmailKey ContextKey = "email"
	// NameKey is the context key for name
	NameKey ContextKey = "name"
	// RoleKey is the context key for the user's role
	RoleKey ContextKey = "user_role"
)

// JWTAuth requires a valid bearer token and stores the caller's identity in
// the request context.
func JWTAuth(jwtManager *jwtutil.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				HandleError(w, r, errors.NewUnauthorizedError("Missing authorization header"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				HandleError(w, r, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			claims, err := jwtManager.ValidateToken(parts[1])
			if err != nil {
				HandleError(w, r, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			ctx = context.WithValue(ctx, NameKey, claims.Name)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user's ID from the context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
