package wire

import (
	"net/http"

	"material-market/internal/adaptor"
	"material-market/internal/data/entity"
	"material-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireListing(
	r chi.Router,
	listingHandler *adaptor.ListingHandler,
	importHandler *adaptor.ImportHandler,
	auth func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/posts", listingHandler.GetListings)
	r.Get("/api/posts/{id}", listingHandler.GetListing)

	// ==================== VENDOR ROUTES ====================
	// Admin passes the role gate here; ownership is checked per listing.
	r.Route("/api/vendor/posts", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, entity.RoleVendor, entity.RoleAdmin))

		r.Get("/", listingHandler.GetOwnListings)
		r.With(middleware.BodyLimit(1<<20)).Post("/", listingHandler.CreateListing)
		r.Post("/import", importHandler.ImportListings)
		r.Get("/{id}", listingHandler.GetOwnListing)
		r.With(middleware.BodyLimit(1<<20)).Put("/{id}", listingHandler.UpdateListing)
		r.Delete("/{id}", listingHandler.DeleteListing)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/posts", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Get("/", listingHandler.GetAllListings)
		r.Delete("/{id}", listingHandler.DeleteListing)
	})
}
