package request

type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=150"`
}
