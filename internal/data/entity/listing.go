package entity

import "github.com/google/uuid"

type Listing struct {
	Base
	VendorID    uuid.UUID `db:"vendor_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	City        string    `db:"city"`
	Phone       string    `db:"phone"`
	Images      []string  `db:"images"`
}

// ListingWithVendor is the admin projection of a listing joined with its owner.
type ListingWithVendor struct {
	Listing
	VendorName  string `db:"vendor_name"`
	VendorEmail string `db:"vendor_email"`
}
