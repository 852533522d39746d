package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tienda-backend/api/middleware"
	"github.com/angelmondragon/tienda-backend/api/responses"
	"github.com/angelmondragon/tienda-backend/api/validators"
	"github.com/angelmondragon/tienda-backend/internal/tickets"
	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tienda-backend/pkg/errors"
	"github.com/angelmondragon/tienda-backend/pkg/logger"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
)

type ticketAddressRequest struct {
	Direccion    string `json:"direccion"`
	Piso         string `json:"piso,omitempty"`
	Depto        string `json:"depto,omitempty"`
	CodigoPostal string `json:"codigo_postal"`
	Localidad    string `json:"localidad"`
	Provincia    string `json:"provincia"`
	Zona         string `json:"zona,omitempty"`
}

type ticketPhoneRequest struct {
	Number string `json:"number"`
}

type ticketPayerRequest struct {
	FullName string               `json:"full_name"`
	Email    string               `json:"email" validate:"omitempty,email"`
	Phone    ticketPhoneRequest   `json:"phone"`
	DNI      string               `json:"dni"`
	Address  ticketAddressRequest `json:"address"`
}

type ticketLineRequest struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Price    int64     `json:"price"`
	Quantity int       `json:"quantity"`
}

type createTicketRequest struct {
	Payer             ticketPayerRequest  `json:"payer"`
	ShippingMethod    string              `json:"shipping_method"`
	PaymentMethod     string              `json:"payment_method"`
	TransactionAmount decimal.Decimal     `json:"transaction_amount"`
	Cart              []ticketLineRequest `json:"cart"`
}

func (r createTicketRequest) toInput(userID *uuid.UUID) tickets.CreateTicketInput {
	lines := make([]models.TicketLine, 0, len(r.Cart))
	for _, l := range r.Cart {
		lines = append(lines, models.TicketLine{ProductID: l.ID, Title: l.Title, Price: l.Price, Quantity: l.Quantity})
	}
	a := r.Payer.Address
	return tickets.CreateTicketInput{
		UserID: userID,
		Payer: models.TicketPayer{
			FullName:    r.Payer.FullName,
			Email:       r.Payer.Email,
			PhoneNumber: r.Payer.Phone.Number,
			DNI:         r.Payer.DNI,
			Address: models.TicketAddress{
				Direccion:    a.Direccion,
				Piso:         a.Piso,
				Depto:        a.Depto,
				CodigoPostal: a.CodigoPostal,
				Localidad:    a.Localidad,
				Provincia:    a.Provincia,
				Zona:         a.Zona,
			},
		},
		ShippingMethod:    r.ShippingMethod,
		PaymentMethod:     r.PaymentMethod,
		TransactionAmount: r.TransactionAmount,
		Lines:             lines,
	}
}

func TicketCreate(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createTicketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var userID *uuid.UUID
		if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
			id := claims.UserID
			userID = &id
		}
		dto, err := svc.CreateTicket(r.Context(), payload.toInput(userID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// TicketList lists tickets filtered by status. Non-admin callers only see
// their own tickets.
func TicketList(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := tickets.ListTicketsInput{
			Status:     r.URL.Query().Get("status"),
			Pagination: pagination.Params{Limit: limit, Offset: offset},
		}
		if claims := middleware.ClaimsFromContext(r.Context()); claims != nil && !claims.IsAdmin() {
			id := claims.UserID
			input.UserID = &id
		}
		result, err := svc.ListTickets(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func TicketGet(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetTicket(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if claims := middleware.ClaimsFromContext(r.Context()); claims != nil && !claims.IsAdmin() {
			if dto.UserID == nil || *dto.UserID != claims.UserID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found"))
				return
			}
		}
		responses.WriteSuccess(w, dto)
	}
}

type ticketStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TicketMarkReady moves a ticket to ready. Only the ready status can be set.
func TicketMarkReady(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if r.ContentLength != 0 {
			var payload ticketStatusRequest
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if payload.Status != enums.TicketStatusReady.String() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "only the ready status can be set"))
				return
			}
		}
		dto, err := svc.MarkReady(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
