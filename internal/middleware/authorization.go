package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin guards the catalog editor and order management endpoints.
// It assumes AuthMiddleware already ran and stored the role in the context.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok || role != "admin" {
				logger.Warn("Blocked non-admin access to admin endpoint",
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
