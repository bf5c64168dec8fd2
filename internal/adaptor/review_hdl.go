package adaptor

import (
	"net/http"

	"material-market/internal/dto/request"
	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews/{listingId} (public)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.AddReview(r.Context(), chi.URLParam(r, "listingId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review added", review)
}

// GetReviews handles GET /api/reviews/{listingId} (public)
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "listingId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get reviews")
		return
	}

	utils.ResponseList(w, "success", reviews)
}

// GetSummary handles GET /api/reviews/{listingId}/summary (public)
func (h *ReviewHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "listingId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}
