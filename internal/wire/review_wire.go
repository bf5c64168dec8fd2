package wire

import (
	"material-market/internal/adaptor"
	"material-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// Reviews need no account: the reviewer supplies a display name.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler) {
	r.Route("/api/reviews/{listingId}", func(r chi.Router) {
		r.Get("/", reviewHandler.GetReviews)
		r.With(middleware.BodyLimit(64<<10)).Post("/", reviewHandler.CreateReview)
		r.Get("/summary", reviewHandler.GetSummary)
	})
}
