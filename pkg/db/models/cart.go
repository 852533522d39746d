package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart owns an ordered list of line snapshots. ExpiresAt is fixed at creation.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Version   int        `gorm:"column:version;not null;default:1"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null;index"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartLine snapshots a product at the moment it was first added.
// DebitedQty counts the units that were taken from product stock.
type CartLine struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	CartID     uuid.UUID   `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_lines_cart_product"`
	ProductID  uuid.UUID   `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_lines_cart_product"`
	Position   int         `gorm:"column:position;not null"`
	Title      string      `gorm:"column:title;not null"`
	Price      int64       `gorm:"column:price;not null"`
	Thumbnails []Thumbnail `gorm:"column:thumbnails;type:jsonb;serializer:json;not null"`
	Quantity   int         `gorm:"column:quantity;not null"`
	DebitedQty int         `gorm:"column:debited_qty;not null;default:0"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *CartLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
