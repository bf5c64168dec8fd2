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
	"material-market/internal/rating"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	AddReview(ctx context.Context, listingID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	ListReviews(ctx context.Context, listingID string) ([]response.ReviewResponse, error)
	// Summary recomputes the average from the full review set on every call.
	Summary(ctx context.Context, listingID string) (*response.ReviewSummary, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	log        *zap.Logger
}

func NewReviewService(reviewRepo repository.ReviewRepository, log *zap.Logger) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		log:        log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) AddReview(ctx context.Context, listingID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, ErrNotFound)
	}

	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		ListingID: id,
		UserName:  strings.TrimSpace(req.UserName),
		Rating:    req.Rating,
		Text:      strings.TrimSpace(req.Text),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil, fmt.Errorf("listing %s: %w", listingID, ErrNotFound)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("listing_id", listingID),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) ListReviews(ctx context.Context, listingID string) ([]response.ReviewResponse, error) {
	reviews, err := s.fetch(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return response.ReviewsToResponse(reviews), nil
}

func (s *reviewService) Summary(ctx context.Context, listingID string) (*response.ReviewSummary, error) {
	reviews, err := s.fetch(ctx, listingID)
	if err != nil {
		return nil, err
	}

	return &response.ReviewSummary{
		AverageRating: rating.AverageOf(reviews),
		ReviewCount:   len(reviews),
	}, nil
}

func (s *reviewService) fetch(ctx context.Context, listingID string) ([]*entity.Review, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, ErrNotFound)
	}

	reviews, err := s.reviewRepo.FindByListingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
