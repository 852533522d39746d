package product

import (
	"time"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID           uuid.UUID      `json:"id"`
	Code         string         `json:"code"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Subcategory  string         `json:"subcategory"`
	Price        int64          `json:"price"`
	Stock        int            `json:"stock"`
	Available    bool           `json:"available"`
	Thumbnails   []ThumbnailDTO `json:"thumbnails"`
	DisplayClass string         `json:"display_class"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type ThumbnailDTO struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ProductListResult is one page of the catalog.
type ProductListResult = pagination.Page[ProductDTO]

func NewProductDTO(p *models.Product) *ProductDTO {
	thumbs := make([]ThumbnailDTO, len(p.Thumbnails))
	for i, t := range p.Thumbnails {
		thumbs[i] = ThumbnailDTO{URL: t.URL, Filename: t.Filename}
	}
	return &ProductDTO{
		ID:           p.ID,
		Code:         p.Code,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category.String(),
		Subcategory:  p.Subcategory,
		Price:        p.Price,
		Stock:        p.Stock,
		Available:    p.Stock > 0,
		Thumbnails:   thumbs,
		DisplayClass: string(p.DisplayClass),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
