package adaptor

import (
	"net/http"

	"material-market/internal/dto/request"
	"material-market/internal/search"
	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ListingHandler struct {
	service usecase.ListingService
	log     *zap.Logger
}

func NewListingHandler(service usecase.ListingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log.With(zap.String("handler", "listing")),
	}
}

// ==================== PUBLIC ====================

// GetListings handles GET /api/posts?city=&name=&maxPrice=
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(w, r)
	if !ok {
		return
	}

	listings, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "get listings")
		return
	}

	utils.ResponseList(w, "success", listings)
}

// GetListing handles GET /api/posts/{id}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get listing")
		return
	}

	utils.ResponseSuccess(w, "success", listing)
}

// ==================== VENDOR ====================

// GetOwnListings handles GET /api/vendor/posts
func (h *ListingHandler) GetOwnListings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	listings, err := h.service.ListOwn(r.Context(), p)
	if err != nil {
		handleServiceError(w, h.log, err, "get own listings")
		return
	}

	utils.ResponseList(w, "success", listings)
}

// CreateListing handles POST /api/vendor/posts
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.CreateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	listing, err := h.service.Create(r.Context(), p, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create listing")
		return
	}

	utils.ResponseCreated(w, "Listing created", listing)
}

// GetOwnListing handles GET /api/vendor/posts/{id}
func (h *ListingHandler) GetOwnListing(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	listing, err := h.service.GetOwned(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get own listing")
		return
	}

	utils.ResponseSuccess(w, "success", listing)
}

// UpdateListing handles PUT /api/vendor/posts/{id}
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.UpdateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	listing, err := h.service.Update(r.Context(), p, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update listing")
		return
	}

	utils.ResponseSuccess(w, "Listing updated", listing)
}

// DeleteListing handles DELETE /api/vendor/posts/{id} and DELETE /api/admin/posts/{id}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete listing")
		return
	}

	utils.ResponseSuccess(w, "Listing deleted", nil)
}

// ==================== ADMIN ====================

// GetAllListings handles GET /api/admin/posts
func (h *ListingHandler) GetAllListings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	listings, err := h.service.ListWithVendor(r.Context(), p)
	if err != nil {
		handleServiceError(w, h.log, err, "get all listings")
		return
	}

	utils.ResponseList(w, "success", listings)
}

// filterFromQuery reads city, name and maxPrice. An unparsable maxPrice
// is rejected rather than ignored.
func filterFromQuery(w http.ResponseWriter, r *http.Request) (search.Filter, bool) {
	query := r.URL.Query()
	filter := search.Filter{
		City: query.Get("city"),
		Name: query.Get("name"),
	}

	if raw := query.Get("maxPrice"); raw != "" {
		maxPrice, ok := utils.ParseFloat(raw)
		if !ok {
			utils.ResponseValidation(w, utils.FieldErrors{
				"maxPrice": "Must be a non-negative number",
			})
			return search.Filter{}, false
		}
		filter.MaxPrice = &maxPrice
	}

	return filter, true
}
