package usecase

import (
	"context"
	"fmt"

	"material-market/internal/data/entity"
	"material-market/internal/data/repository"
	"material-market/internal/dto/response"
	"material-market/internal/rating"
	"material-market/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService is the browse pipeline: filter the listings, then gather
// each visible listing's reviews independently and aggregate them.
type CatalogService interface {
	Browse(ctx context.Context, filter search.Filter) ([]response.CatalogItem, error)
}

type catalogService struct {
	listingRepo repository.ListingRepository
	reviewRepo  repository.ReviewRepository
	concurrency int
	log         *zap.Logger
}

func NewCatalogService(repo *repository.Repository, concurrency int, log *zap.Logger) CatalogService {
	return &catalogService{
		listingRepo: repo.Listing,
		reviewRepo:  repo.Review,
		concurrency: concurrency,
		log:         log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) Browse(ctx context.Context, filter search.Filter) ([]response.CatalogItem, error) {
	listings, err := s.listingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	visible := search.Listings(filter, listings)

	ids := make([]uuid.UUID, len(visible))
	for i, l := range visible {
		ids[i] = l.ID
	}

	reviews := rating.FetchAll(ctx, ids, s.concurrency, s.reviewRepo.FindByListingID, func(id uuid.UUID, err error) {
		s.log.Warn("Review fetch failed, showing listing without reviews",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
	})

	items := make([]response.CatalogItem, len(visible))
	for i, l := range visible {
		items[i] = catalogItem(l, reviews[l.ID])
	}

	s.log.Debug("Catalog browsed",
		zap.Int("total", len(listings)),
		zap.Int("visible", len(visible)),
	)
	return items, nil
}

func catalogItem(l *entity.Listing, reviews []*entity.Review) response.CatalogItem {
	return response.CatalogItem{
		ListingResponse: response.ListingToResponse(l),
		Reviews:         response.ReviewsToResponse(reviews),
		AverageRating:   rating.AverageOf(reviews),
		ReviewCount:     len(reviews),
	}
}
