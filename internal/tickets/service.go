package tickets

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tienda-backend/pkg/db"
	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tienda-backend/pkg/errors"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
)

const (
	codeLength   = 8
	codeAttempts = 3
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Service manages checkout tickets.
type Service interface {
	CreateTicket(ctx context.Context, input CreateTicketInput) (*TicketDTO, error)
	ListTickets(ctx context.Context, input ListTicketsInput) (*TicketListResult, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*TicketDTO, error)
	MarkReady(ctx context.Context, id uuid.UUID) (*TicketDTO, error)
}

type CreateTicketInput struct {
	UserID            *uuid.UUID
	Payer             models.TicketPayer
	ShippingMethod    string
	PaymentMethod     string
	TransactionAmount decimal.Decimal
	Lines             []models.TicketLine
}

type ListTicketsInput struct {
	UserID     *uuid.UUID
	Status     string
	Pagination pagination.Params
}

type service struct {
	repo    *Repository
	newCode func() (string, error)
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	return &service{repo: repo, newCode: randomCode}, nil
}

func (s *service) CreateTicket(ctx context.Context, input CreateTicketInput) (*TicketDTO, error) {
	if err := validateTicket(input); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		UserID:            input.UserID,
		Payer:             input.Payer,
		ShippingMethod:    strings.TrimSpace(input.ShippingMethod),
		PaymentMethod:     strings.TrimSpace(input.PaymentMethod),
		TransactionAmount: input.TransactionAmount.Round(2),
		Lines:             input.Lines,
		Status:            enums.TicketStatusPending,
	}

	// codes are short, so retry the rare collision with a fresh one
	for attempt := 1; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate ticket code")
		}
		ticket.ID = uuid.Nil
		ticket.Code = code

		err = s.repo.Create(ctx, ticket)
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, "") && attempt < codeAttempts {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ticket")
	}
	return NewTicketDTO(ticket), nil
}

func (s *service) ListTickets(ctx context.Context, input ListTicketsInput) (*TicketListResult, error) {
	filter := ListFilter{UserID: input.UserID}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := enums.ParseTicketStatus(strings.ToLower(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filter.Status = &status
	}

	page := input.Pagination.Normalize()
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list tickets")
	}
	items := make([]TicketDTO, len(rows))
	for i := range rows {
		items[i] = *NewTicketDTO(&rows[i])
	}
	result := pagination.NewPage(items, total, page)
	return &result, nil
}

func (s *service) GetTicket(ctx context.Context, id uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return NewTicketDTO(ticket), nil
}

func (s *service) MarkReady(ctx context.Context, id uuid.UUID) (*TicketDTO, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, enums.TicketStatusReady)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update ticket status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	return s.GetTicket(ctx, id)
}

func validateTicket(input CreateTicketInput) error {
	payer := input.Payer
	addr := payer.Address
	var missing []string
	for field, value := range map[string]string{
		"payer.full_name":             payer.FullName,
		"payer.email":                 payer.Email,
		"payer.phone.number":          payer.PhoneNumber,
		"payer.dni":                   payer.DNI,
		"payer.address.direccion":     addr.Direccion,
		"payer.address.codigo_postal": addr.CodigoPostal,
		"payer.address.localidad":     addr.Localidad,
		"payer.address.provincia":     addr.Provincia,
		"shipping_method":             input.ShippingMethod,
		"payment_method":              input.PaymentMethod,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return pkgerrors.New(pkgerrors.CodeValidation, "all payment form fields are required").
			WithDetails(map[string]any{"missing": missing})
	}
	if !input.TransactionAmount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction_amount must be greater than zero")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one product")
	}
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil || line.Quantity <= 0 || line.Price <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart lines require id, positive price and quantity")
		}
	}
	return nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ticket")
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
