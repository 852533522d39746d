package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/tienda-backend/api/responses"
	"github.com/angelmondragon/tienda-backend/api/validators"
	"github.com/angelmondragon/tienda-backend/internal/cart"
	"github.com/angelmondragon/tienda-backend/pkg/logger"
)

const defaultAddQuantity = 1

// CartGet returns the cart named in the path, or a fresh cart when the path
// carries no id. Unknown ids also yield a fresh cart.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cartID *uuid.UUID
		if chi.URLParam(r, "id") != "" {
			id, err := validators.ParseUUIDParam(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			cartID = &id
		}
		dto, err := svc.GetCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type cartMutation func(r *http.Request, cartID, productID uuid.UUID, qty int) (*cart.CartDTO, error)

func cartLineHandler(logg *logger.Logger, withQuantity bool, defaultQty int, mutate cartMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParseUUIDParam(r, "cid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(r, "pid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty := 0
		if withQuantity {
			qty, err = validators.ParseQuantityParam(r, "quantity", defaultQty)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCartID(ctx, cartID.String())
		}
		dto, err := mutate(r.WithContext(ctx), cartID, productID, qty)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CartAdd adds quantity to a line without touching stock. The quantity path
// segment is optional and defaults to one.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, true, defaultAddQuantity, func(r *http.Request, cartID, productID uuid.UUID, qty int) (*cart.CartDTO, error) {
		return svc.AddToCart(r.Context(), cartID, productID, qty)
	})
}

func CartIncrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, true, defaultAddQuantity, func(r *http.Request, cartID, productID uuid.UUID, qty int) (*cart.CartDTO, error) {
		return svc.IncreaseAndDebitStock(r.Context(), cartID, productID, qty)
	})
}

func CartDecrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, true, defaultAddQuantity, func(r *http.Request, cartID, productID uuid.UUID, qty int) (*cart.CartDTO, error) {
		return svc.DecreaseAndCreditStock(r.Context(), cartID, productID, qty)
	})
}

func CartRemoveLine(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, false, 0, func(r *http.Request, cartID, productID uuid.UUID, _ int) (*cart.CartDTO, error) {
		return svc.RemoveLine(r.Context(), cartID, productID)
	})
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.ParseUUIDParam(r, "cid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.ClearCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
