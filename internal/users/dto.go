package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
)

// UserDTO is the public representation of a user identity.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDTO maps a user model to its public shape.
func ToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
