package adaptor

import (
	"material-market/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Listing *ListingHandler
	Import  *ImportHandler
	Review  *ReviewHandler
	Upload  *UploadHandler
	Catalog *CatalogHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, service.User, log),
		User:    NewUserHandler(service.User, log),
		Listing: NewListingHandler(service.Listing, log),
		Import:  NewImportHandler(service.Import, log),
		Review:  NewReviewHandler(service.Review, log),
		Upload:  NewUploadHandler(service.Upload, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
	}
}
