package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"material-market/internal/data/entity"
	"material-market/internal/data/repository"
	"material-market/internal/dto/request"
	"material-market/internal/dto/response"
	"material-market/internal/search"
	"material-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListingService interface {
	// Public
	List(ctx context.Context, filter search.Filter) ([]response.ListingResponse, error)
	Get(ctx context.Context, id string) (*response.ListingResponse, error)

	// Vendor (owner or admin)
	Create(ctx context.Context, p utils.Principal, req *request.CreateListingRequest) (*response.ListingResponse, error)
	ListOwn(ctx context.Context, p utils.Principal) ([]response.ListingResponse, error)
	GetOwned(ctx context.Context, p utils.Principal, id string) (*response.ListingResponse, error)
	Update(ctx context.Context, p utils.Principal, id string, req *request.UpdateListingRequest) (*response.ListingResponse, error)
	Delete(ctx context.Context, p utils.Principal, id string) error

	// Admin
	ListWithVendor(ctx context.Context, p utils.Principal) ([]response.AdminListingResponse, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
	log         *zap.Logger
}

func NewListingService(listingRepo repository.ListingRepository, log *zap.Logger) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		log:         log.With(zap.String("service", "listing")),
	}
}

func (s *listingService) List(ctx context.Context, filter search.Filter) ([]response.ListingResponse, error) {
	listings, err := s.listingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	if !filter.IsZero() {
		listings = search.Listings(filter, listings)
	}
	return response.ListingsToResponse(listings), nil
}

func (s *listingService) Get(ctx context.Context, id string) (*response.ListingResponse, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.ListingToResponse(listing)
	return &resp, nil
}

func (s *listingService) Create(ctx context.Context, p utils.Principal, req *request.CreateListingRequest) (*response.ListingResponse, error) {
	if err := RequireRole(p, entity.RoleVendor); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		s.log.Warn("Create listing validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	listing := &entity.Listing{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VendorID:    p.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		City:        strings.TrimSpace(req.City),
		Phone:       strings.TrimSpace(req.Phone),
		Images:      cleanImages(req.Images),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil, fmt.Errorf("vendor %s: %w", p.UserID, ErrNotFound)
		}
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.log.Info("Listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("vendor_id", p.UserID.String()),
		zap.Float64("price", listing.Price),
	)

	resp := response.ListingToResponse(listing)
	return &resp, nil
}

func (s *listingService) ListOwn(ctx context.Context, p utils.Principal) ([]response.ListingResponse, error) {
	if err := RequireRole(p, entity.RoleVendor, entity.RoleAdmin); err != nil {
		return nil, err
	}

	listings, err := s.listingRepo.FindByVendor(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list vendor listings: %w", err)
	}

	return response.ListingsToResponse(listings), nil
}

func (s *listingService) GetOwned(ctx context.Context, p utils.Principal, id string) (*response.ListingResponse, error) {
	listing, err := s.findOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	resp := response.ListingToResponse(listing)
	return &resp, nil
}

func (s *listingService) Update(ctx context.Context, p utils.Principal, id string, req *request.UpdateListingRequest) (*response.ListingResponse, error) {
	listing, err := s.findOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Title != nil {
		listing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		listing.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.City != nil {
		listing.City = strings.TrimSpace(*req.City)
	}
	if req.Phone != nil {
		listing.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Images != nil {
		listing.Images = cleanImages(*req.Images)
	}
	listing.UpdatedAt = time.Now().UTC()

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.log.Info("Listing updated",
		zap.String("listing_id", id),
		zap.String("actor_id", p.UserID.String()),
	)

	resp := response.ListingToResponse(listing)
	return &resp, nil
}

func (s *listingService) Delete(ctx context.Context, p utils.Principal, id string) error {
	listing, err := s.findOwned(ctx, p, id)
	if err != nil {
		return err
	}

	if err := s.listingRepo.Delete(ctx, listing.ID, listing.VendorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("listing %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete listing: %w", err)
	}

	s.log.Info("Listing deleted",
		zap.String("listing_id", id),
		zap.String("actor_id", p.UserID.String()),
		zap.String("actor_role", string(p.Role)),
	)
	return nil
}

func (s *listingService) ListWithVendor(ctx context.Context, p utils.Principal) ([]response.AdminListingResponse, error) {
	if err := RequireRole(p, entity.RoleAdmin); err != nil {
		return nil, err
	}

	listings, err := s.listingRepo.FindAllWithVendor(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings with vendor: %w", err)
	}

	out := make([]response.AdminListingResponse, len(listings))
	for i, l := range listings {
		out[i] = response.AdminListingToResponse(l)
	}
	return out, nil
}

// ==================== HELPER METHODS ====================

func (s *listingService) find(ctx context.Context, id string) (*entity.Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}

	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}

	return listing, nil
}

func (s *listingService) findOwned(ctx context.Context, p utils.Principal, id string) (*entity.Listing, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanMutateListing(p, listing) {
		s.log.Warn("Listing ownership check failed",
			zap.String("listing_id", id),
			zap.String("actor_id", p.UserID.String()),
		)
		return nil, fmt.Errorf("%w: not the owner of this listing", ErrForbidden)
	}

	return listing, nil
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}
