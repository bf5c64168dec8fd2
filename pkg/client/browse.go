package client

import (
	"context"

	"material-market/internal/dto/response"
	"material-market/internal/rating"
	"material-market/internal/search"

	"go.uber.org/zap"
)

// BrowseItem is a listing with its reviews and the aggregate rating.
type BrowseItem struct {
	Listing       response.ListingResponse
	Reviews       []response.ReviewResponse
	AverageRating float64
}

func listingFields(l response.ListingResponse) search.Fields {
	return search.Fields{City: l.City, Title: l.Title, Price: l.Price}
}

// Browse loads every listing, narrows it with f locally, then fetches the
// reviews of each visible listing independently. A failed review fetch
// leaves that listing with no reviews.
func (c *Client) Browse(ctx context.Context, f search.Filter) ([]BrowseItem, error) {
	all, err := c.ListPosts(ctx, search.Filter{})
	if err != nil {
		return nil, err
	}

	visible := search.Apply(f, all, listingFields)

	ids := make([]string, len(visible))
	for i, l := range visible {
		ids[i] = l.ID
	}

	reviews := rating.FetchAll(ctx, ids, c.concurrency, c.Reviews, func(id string, err error) {
		c.logger.Warn("Review fetch failed", zap.String("listing_id", id), zap.Error(err))
	})

	items := make([]BrowseItem, len(visible))
	for i, l := range visible {
		rs := reviews[l.ID]
		if rs == nil {
			rs = []response.ReviewResponse{}
		}
		items[i] = BrowseItem{
			Listing:       l,
			Reviews:       rs,
			AverageRating: averageOf(rs),
		}
	}
	return items, nil
}

func averageOf(reviews []response.ReviewResponse) float64 {
	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return rating.Average(ratings)
}
