package adaptor

import (
	"net/http"

	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// Browse handles GET /api/catalog?city=&name=&maxPrice=
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(w, r)
	if !ok {
		return
	}

	items, err := h.service.Browse(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "browse catalog")
		return
	}

	utils.ResponseList(w, "success", items)
}
