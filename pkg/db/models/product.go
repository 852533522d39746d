package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/tienda-backend/pkg/enums"
)

// Thumbnail references an image already stored outside the API.
type Thumbnail struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Product is the authoritative holder of stock.
type Product struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Code         string                `gorm:"column:code;not null;uniqueIndex"`
	Title        string                `gorm:"column:title;not null"`
	Description  string                `gorm:"column:description;not null"`
	Category     enums.ProductCategory `gorm:"column:category;type:text;not null;index"`
	Subcategory  string                `gorm:"column:subcategory;not null"`
	Price        int64                 `gorm:"column:price;not null"`
	Stock        int                   `gorm:"column:stock;not null"`
	Thumbnails   []Thumbnail           `gorm:"column:thumbnails;type:jsonb;serializer:json;not null"`
	DisplayClass enums.DisplayClass    `gorm:"column:display_class;type:text;not null"`
	Version      int                   `gorm:"column:version;not null;default:1"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
