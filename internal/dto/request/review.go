package request

type CreateReviewRequest struct {
	UserName string `json:"userName" validate:"required,notblank,max=100"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Text     string `json:"text" validate:"required,notblank"`
}
