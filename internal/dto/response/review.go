package response

import (
	"time"

	"material-market/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
}

type ReviewSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// CatalogItem is a listing together with its reviews and aggregate rating.
type CatalogItem struct {
	ListingResponse
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		ListingID: review.ListingID.String(),
		UserName:  review.UserName,
		Rating:    review.Rating,
		Text:      review.Text,
		Date:      review.CreatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewToResponse(r)
	}
	return out
}
