package adaptor

import (
	"errors"
	"net/http"

	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

const maxImportBytes = 10 << 20

type ImportHandler struct {
	service usecase.ImportService
	log     *zap.Logger
}

func NewImportHandler(service usecase.ImportService, log *zap.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		log:     log.With(zap.String("handler", "import")),
	}
}

// ImportListings handles POST /api/vendor/posts/import (multipart field "file")
func (h *ImportHandler) ImportListings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseTooLarge(w, "Workbook too large")
			return
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		utils.ResponseValidation(w, utils.FieldErrors{"file": "This field is required"})
		return
	}
	defer file.Close()

	result, err := h.service.Import(r.Context(), p, file)
	if err != nil {
		handleServiceError(w, h.log, err, "import listings")
		return
	}

	utils.ResponseCreated(w, "Import finished", result)
}
