package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tienda-backend/pkg/enums"
)

type TicketAddress struct {
	Direccion    string `json:"direccion"`
	Piso         string `json:"piso,omitempty"`
	Depto        string `json:"depto,omitempty"`
	CodigoPostal string `json:"codigo_postal"`
	Localidad    string `json:"localidad"`
	Provincia    string `json:"provincia"`
	Zona         string `json:"zona,omitempty"`
}

type TicketPayer struct {
	FullName    string        `json:"full_name"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phone_number"`
	DNI         string        `json:"dni"`
	Address     TicketAddress `json:"address"`
}

type TicketLine struct {
	ProductID uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
}

// Ticket is a placed order.
type Ticket struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Code              string             `gorm:"column:code;not null;uniqueIndex"`
	UserID            *uuid.UUID         `gorm:"column:user_id;type:uuid;index"`
	Payer             TicketPayer        `gorm:"column:payer;type:jsonb;serializer:json;not null"`
	ShippingMethod    string             `gorm:"column:shipping_method;not null"`
	PaymentMethod     string             `gorm:"column:payment_method;not null"`
	TransactionAmount decimal.Decimal    `gorm:"column:transaction_amount;type:numeric(14,2);not null"`
	Lines             []TicketLine       `gorm:"column:lines;type:jsonb;serializer:json;not null"`
	Status            enums.TicketStatus `gorm:"column:status;type:text;not null;index"`
	DateCreated       time.Time          `gorm:"column:date_created;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
