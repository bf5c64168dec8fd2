// Package rating computes aggregate star ratings and gathers per-listing
// review sets concurrently.
package rating

import (
	"context"
	"sync"

	"material-market/internal/data/entity"

	"golang.org/x/sync/errgroup"
)

// Average is the arithmetic mean of ratings, or 0 for an empty set.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// AverageOf averages the ratings of a review set.
func AverageOf(reviews []*entity.Review) float64 {
	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return Average(ratings)
}

// FetchAll runs fetch for every key with at most limit calls in flight and
// merges results into a map as each finishes. A failed fetch stores the zero
// value for its key and is reported to onErr; it never stops the others.
func FetchAll[K comparable, V any](ctx context.Context, keys []K, limit int, fetch func(ctx context.Context, key K) (V, error), onErr func(K, error)) map[K]V {
	results := make(map[K]V, len(keys))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, key := range keys {
		g.Go(func() error {
			v, err := fetch(gctx, key)
			if err != nil {
				if onErr != nil {
					onErr(key, err)
				}
				var zero V
				v = zero
			}

			mu.Lock()
			results[key] = v
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}
