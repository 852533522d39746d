package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/tienda-backend/pkg/enums"
)

type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Username       string         `gorm:"column:username;not null"`
	Email          string         `gorm:"column:email;not null;uniqueIndex"`
	Age            int            `gorm:"column:age;not null"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	Role           enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`
	LastConnection *time.Time     `gorm:"column:last_connection"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
