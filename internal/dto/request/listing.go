package request

// CreateListingRequest carries a new listing. Price is a pointer so that an
// omitted price is distinguishable from a free one.
type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"required,notblank"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	City        string   `json:"city" validate:"required,notblank,max=100"`
	Phone       string   `json:"phone" validate:"required,notblank,max=30"`
	Images      []string `json:"images" validate:"max=5,dive,required"`
}

type UpdateListingRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,notblank"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	City        *string   `json:"city,omitempty" validate:"omitempty,notblank,max=100"`
	Phone       *string   `json:"phone,omitempty" validate:"omitempty,notblank,max=30"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,max=5,dive,required"`
}
