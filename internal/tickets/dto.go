package tickets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
)

type TicketDTO struct {
	ID                uuid.UUID          `json:"id"`
	Code              string             `json:"code"`
	UserID            *uuid.UUID         `json:"user_id,omitempty"`
	Payer             models.TicketPayer `json:"payer"`
	ShippingMethod    string             `json:"shipping_method"`
	PaymentMethod     string             `json:"payment_method"`
	TransactionAmount decimal.Decimal    `json:"transaction_amount"`
	Lines             []TicketLineDTO    `json:"cart"`
	Status            string             `json:"status"`
	DateCreated       time.Time          `json:"date_created"`
}

type TicketLineDTO struct {
	ProductID uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
}

type TicketListResult = pagination.Page[TicketDTO]

func NewTicketDTO(t *models.Ticket) *TicketDTO {
	lines := make([]TicketLineDTO, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = TicketLineDTO{ProductID: l.ProductID, Title: l.Title, Price: l.Price, Quantity: l.Quantity}
	}
	return &TicketDTO{
		ID:                t.ID,
		Code:              t.Code,
		UserID:            t.UserID,
		Payer:             t.Payer,
		ShippingMethod:    t.ShippingMethod,
		PaymentMethod:     t.PaymentMethod,
		TransactionAmount: t.TransactionAmount,
		Lines:             lines,
		Status:            t.Status.String(),
		DateCreated:       t.DateCreated,
	}
}
