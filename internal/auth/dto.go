package auth

import (
	"github.com/plantswapio/plantswap-backend/internal/users"
)

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput carries validated login fields.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionDTO is returned by both register and login.
type SessionDTO struct {
	AccessToken string        `json:"access_token"`
	User        users.UserDTO `json:"user"`
}
