package middleware

import (
	"net/http"
	"strings"

	"material-market/internal/data/entity"
	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate verifies the bearer token and stores the principal in the
// request context. Expired and forged tokens get the same answer.
func Authenticate(verifier usecase.TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			principal, err := usecase.Authenticate(verifier, strings.TrimSpace(raw))
			if err != nil {
				logger.Warn("Invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("request_id", utils.GetRequestID(r.Context())),
					zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects principals outside the given roles. It must run
// after Authenticate.
func RequireRole(logger *zap.Logger, roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := utils.GetPrincipal(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if err := usecase.RequireRole(principal, roles...); err != nil {
				logger.Warn("Role check failed",
					zap.String("user_id", principal.UserID.String()),
					zap.String("role", string(principal.Role)),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "You do not have access to this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
