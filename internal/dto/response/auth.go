package response

import (
	"time"

	"material-market/internal/data/entity"
)

// PublicUser is the user view embedded in auth responses.
type PublicUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

type AuthResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      PublicUser `json:"user"`
}

type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	Phone     *string     `json:"phone,omitempty"`
	Address   *string     `json:"address,omitempty"`
	Company   *string     `json:"company,omitempty"`
	Posts     []string    `json:"posts"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Helper converters
func UserToPublic(user *entity.User) PublicUser {
	return PublicUser{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

func UserToResponse(user *entity.User) UserResponse {
	posts := make([]string, len(user.Posts))
	for i, id := range user.Posts {
		posts[i] = id.String()
	}

	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Address:   user.Address,
		Company:   user.Company,
		Posts:     posts,
		CreatedAt: user.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserToResponse(u)
	}
	return out
}
