package auth

import (
	"time"

	"github.com/angelmondragon/tienda-backend/internal/users"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=64"`
	Email           string `json:"email" validate:"required,email"`
	Age             int    `json:"age" validate:"required,gte=1,lte=130"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed session token and the authenticated user.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *users.UserDTO `json:"user"`
}

// ResetPasswordRequest changes the password of the authenticated user.
type ResetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
