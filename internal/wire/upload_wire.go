package wire

import (
	"net/http"

	"material-market/internal/adaptor"
	"material-market/internal/storage"
	"material-market/pkg/middleware"
	"material-market/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// multipart framing on top of the file payloads
const multipartOverhead = 1 << 20

func wireUpload(
	r chi.Router,
	uploadHandler *adaptor.UploadHandler,
	auth func(http.Handler) http.Handler,
	store *storage.Local,
	config utils.UploadConfig,
) {
	// The handler stops reading after one file past the count cap or one
	// byte past the size cap, so a conforming stream never reaches this.
	limit := int64(config.MaxFiles+1)*(config.MaxFileBytes()+1) + multipartOverhead

	r.With(auth, middleware.BodyLimit(limit)).Post("/api/upload", uploadHandler.Upload)

	// Stored files are public once uploaded.
	prefix := config.URLPrefix + "/"
	r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(store.Dir()))))
}
