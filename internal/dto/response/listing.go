package response

import (
	"time"

	"material-market/internal/data/entity"
)

type ListingResponse struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	City        string    `json:"city"`
	Phone       string    `json:"phone"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type VendorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdminListingResponse is a listing with its owner populated.
type AdminListingResponse struct {
	ListingResponse
	Vendor VendorSummary `json:"vendor"`
}

type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResponse struct {
	Created []ListingResponse `json:"created"`
	Failed  []ImportRowError  `json:"failed"`
}

func ListingToResponse(l *entity.Listing) ListingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}

	return ListingResponse{
		ID:          l.ID.String(),
		VendorID:    l.VendorID.String(),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		City:        l.City,
		Phone:       l.Phone,
		Images:      images,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func ListingsToResponse(listings []*entity.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = ListingToResponse(l)
	}
	return out
}

func AdminListingToResponse(l *entity.ListingWithVendor) AdminListingResponse {
	return AdminListingResponse{
		ListingResponse: ListingToResponse(&l.Listing),
		Vendor: VendorSummary{
			ID:    l.VendorID.String(),
			Name:  l.VendorName,
			Email: l.VendorEmail,
		},
	}
}
