package wire

import (
	"net/http"

	"material-market/internal/adaptor"
	"material-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// per-IP budget for register/login on top of the global limit
const authRateLimit = 20

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(authRateLimit))
		r.Use(middleware.BodyLimit(1 << 20))

		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// ==================== PROTECTED ROUTES ====================
		r.With(auth).Get("/me", authHandler.Me)
	})
}
