package wire

import (
	"net/http"

	"material-market/internal/adaptor"
	"material-market/internal/data/entity"
	"material-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	auth func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Route("/api/vendor/profile", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, entity.RoleVendor))

		r.Get("/", userHandler.GetProfile)
		r.With(middleware.BodyLimit(1<<20)).Put("/", userHandler.UpdateProfile)
	})

	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Get("/", userHandler.GetUsers)
		r.Delete("/{id}", userHandler.DeleteUser)
	})
}
