package request

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=client vendor"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Company  *string `json:"company,omitempty" validate:"omitempty,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
