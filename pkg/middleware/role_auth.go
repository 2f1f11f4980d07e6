package middleware

import (
	"context"
	"net/http"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/pkg/errors"
)

// RequireRoles allows the request through only when the authenticated user
// holds one of the given roles. Must run after JWTAuth.
func RequireRoles(allowedRoles ...aggregate.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleValue, ok := r.Context().Value(RoleKey).(string)
			if !ok || roleValue == "" {
				HandleError(w, r, errors.NewUnauthorizedError("User role not found"))
				return
			}

			role := aggregate.UserRole(roleValue)
			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			HandleError(w, r, errors.NewForbiddenError("Insufficient permissions"))
		})
	}
}

// RequireStaff requires the Manager or Admin role.
func RequireStaff(next http.Handler) http.Handler {
	return RequireRoles(aggregate.RoleManager, aggregate.RoleAdmin)(next)
}

// RequireAdmin requires the Admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(aggregate.RoleAdmin)(next)
}

// GetUserRole extracts the authenticated user's role from the context.
func GetUserRole(ctx context.Context) (aggregate.UserRole, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	if !ok {
		return "", false
	}
	return aggregate.UserRole(role), true
}
