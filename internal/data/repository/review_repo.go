package repository

import (
	"context"
	"fmt"

	"material-market/internal/data/entity"
	"material-market/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*entity.Review, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, listing_id, user_name, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.ListingID,
		review.UserName,
		review.Rating,
		review.Text,
		review.CreatedAt,
	)

	if err != nil {
		err = classify(err)
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("listing_id", review.ListingID.String()),
		)
		return fmt.Errorf("create review for listing %s: %w", review.ListingID.String(), err)
	}

	return nil
}

// FindByListingID returns the full review set for a listing, newest first.
func (r *reviewRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*entity.Review, error) {
	query := `
		SELECT id, listing_id, user_name, rating, text, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, listingID)
	if err != nil {
		r.log.Error("Failed to find reviews by listing ID",
			zap.Error(err),
			zap.String("listing_id", listingID.String()),
		)
		return nil, fmt.Errorf("find reviews by listing ID %s: %w", listingID.String(), err)
	}
	defer rows.Close()

	reviews := make([]*entity.Review, 0)
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.ListingID,
			&review.UserName,
			&review.Rating,
			&review.Text,
			&review.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
