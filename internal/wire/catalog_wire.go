package wire

import (
	"material-market/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	r.Get("/api/catalog", catalogHandler.Browse)
}
