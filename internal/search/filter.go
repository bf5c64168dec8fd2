// Package search narrows a listing set with the marketplace filter: city and
// title substrings (case-insensitive) and an inclusive price ceiling. All set
// predicates must hold. Filtering never mutates its input.
package search

import (
	"strings"

	"material-market/internal/data/entity"
)

// DefaultMaxPrice is the ceiling the browse screen starts with.
const DefaultMaxPrice = 1000000

// Filter is a browse query. Empty strings and a nil MaxPrice match everything.
type Filter struct {
	City     string   `json:"city"`
	Name     string   `json:"name"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
}

// Fields are the listing attributes the filter looks at.
type Fields struct {
	City  string
	Title string
	Price float64
}

// Default returns the initial browse filter.
func Default() Filter {
	p := float64(DefaultMaxPrice)
	return Filter{MaxPrice: &p}
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.City == "" && f.Name == "" && f.MaxPrice == nil
}

// Match reports whether a single item passes every set predicate.
func (f Filter) Match(v Fields) bool {
	if f.City != "" && !containsFold(v.City, f.City) {
		return false
	}
	if f.Name != "" && !containsFold(v.Title, f.Name) {
		return false
	}
	if f.MaxPrice != nil && v.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the items that match f, in their original order. The result
// is a new slice.
func Apply[T any](f Filter, items []T, fields func(T) Fields) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.Match(fields(item)) {
			out = append(out, item)
		}
	}
	return out
}

// Listings applies f to stored listings.
func Listings(f Filter, listings []*entity.Listing) []*entity.Listing {
	return Apply(f, listings, ListingFields)
}

// ListingFields extracts the filtered attributes of a stored listing.
func ListingFields(l *entity.Listing) Fields {
	return Fields{City: l.City, Title: l.Title, Price: l.Price}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
