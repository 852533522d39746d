package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Age            int        `json:"age"`
	Role           string     `json:"role"`
	LastConnection *time.Time `json:"last_connection,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	Age          int
	PasswordHash string
	Role         enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Age:            u.Age,
		Role:           u.Role.String(),
		LastConnection: u.LastConnection,
		CreatedAt:      u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		Age:          c.Age,
		PasswordHash: c.PasswordHash,
		Role:         role,
	}
}
