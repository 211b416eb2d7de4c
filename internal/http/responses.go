package http

import (
	"time"

	"github.com/openhire/jobboard/internal/domain"
)

// UserResponse is the public view of a user. The password hash never
// leaves the service.
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Disability string    `json:"disability,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func userResponseFrom(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Disability: u.Disability,
		CreatedAt:  u.CreatedAt,
	}
}
