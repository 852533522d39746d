package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
)

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Lines     []CartLineDTO   `json:"products"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	ExpiresAt time.Time       `json:"expires_at"`
	Version   int             `json:"version"`
}

type CartLineDTO struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Title      string          `json:"title"`
	Price      int64           `json:"price"`
	Thumbnails []ThumbnailDTO  `json:"thumbnails"`
	Quantity   int             `json:"quantity"`
	DebitedQty int             `json:"debited_quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type ThumbnailDTO struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// NewCartDTO maps a persisted cart and computes line subtotals and the total.
func NewCartDTO(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:        cart.ID,
		Lines:     make([]CartLineDTO, len(cart.Lines)),
		Total:     decimal.Zero,
		ExpiresAt: cart.ExpiresAt,
		Version:   cart.Version,
	}
	for i, line := range cart.Lines {
		subtotal := decimal.NewFromInt(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		thumbs := make([]ThumbnailDTO, len(line.Thumbnails))
		for j, t := range line.Thumbnails {
			thumbs[j] = ThumbnailDTO{URL: t.URL, Filename: t.Filename}
		}
		dto.Lines[i] = CartLineDTO{
			ID:         line.ID,
			ProductID:  line.ProductID,
			Title:      line.Title,
			Price:      line.Price,
			Thumbnails: thumbs,
			Quantity:   line.Quantity,
			DebitedQty: line.DebitedQty,
			Subtotal:   subtotal,
		}
		dto.ItemCount += line.Quantity
		dto.Total = dto.Total.Add(subtotal)
	}
	return dto
}
