package wire

import (
	"context"
	"net/http"
	"time"

	"material-market/internal/adaptor"
	"material-market/internal/data/repository"
	"material-market/internal/storage"
	"material-market/internal/usecase"
	"material-market/pkg/middleware"
	"material-market/pkg/token"
	"material-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
	tokens *token.Issuer,
	store *storage.Local,
	db Pinger,
) *App {
	service := usecase.NewService(repo, tokens, store, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, tokens, store, db, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	verifier usecase.TokenVerifier,
	store *storage.Local,
	db Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.HTTP.AllowedOrigins))
	// Browsing fans out one review read per listing, so only writes are metered.
	if config.HTTP.RateLimitPerMinute > 0 {
		r.Use(middleware.LimitWrites(middleware.RateLimit(config.HTTP.RateLimitPerMinute)))
	}

	auth := middleware.Authenticate(verifier, logger)

	// Apply routes
	wireAuth(r, handler.Auth, auth)
	wireListing(r, handler.Listing, handler.Import, auth, logger)
	wireUser(r, handler.User, auth, logger)
	wireReview(r, handler.Review)
	wireCatalog(r, handler.Catalog)
	wireUpload(r, handler.Upload, auth, store, config.Upload)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ResponseUnavailable(w, "Database unavailable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
