package usecase

import (
	"material-market/internal/data/repository"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Listing ListingService
	Review  ReviewService
	Upload  UploadService
	Catalog CatalogService
	Import  ImportService
}

func NewService(
	repo *repository.Repository,
	issuer TokenIssuer,
	store BlobStore,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	listing := NewListingService(repo.Listing, log)

	return &Service{
		Auth:    NewAuthService(repo.User, issuer, log),
		User:    NewUserService(repo.User, log),
		Listing: listing,
		Review:  NewReviewService(repo.Review, log),
		Upload:  NewUploadService(store, config.Upload, log),
		Catalog: NewCatalogService(repo, config.Catalog.Concurrency, log),
		Import:  NewImportService(listing, log),
	}
}
