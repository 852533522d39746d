package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/angelmondragon/tienda-backend/internal/products"
	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tienda-backend/pkg/errors"
	"github.com/angelmondragon/tienda-backend/pkg/logger"
	"github.com/angelmondragon/tienda-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service moves quantity between cart lines and product stock. Every method
// runs in a single transaction so the cart and product writes land together.
type Service interface {
	GetCart(ctx context.Context, cartID *uuid.UUID) (*CartDTO, error)
	AddToCart(ctx context.Context, cartID, productID uuid.UUID, qty int) (*CartDTO, error)
	IncreaseAndDebitStock(ctx context.Context, cartID, productID uuid.UUID, qty int) (*CartDTO, error)
	DecreaseAndCreditStock(ctx context.Context, cartID, productID uuid.UUID, qty int) (*CartDTO, error)
	RemoveLine(ctx context.Context, cartID, productID uuid.UUID) (*CartDTO, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
	SweepExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}

// ServiceParams wires the coordinator's collaborators.
type ServiceParams struct {
	Carts    *Repository
	Products *product.Repository
	Tx       txRunner
	Metrics  *metrics.CartMetrics
	Logger   *logger.Logger
}

type service struct {
	carts    *Repository
	products *product.Repository
	tx       txRunner
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		carts:    params.Carts,
		products: params.Products,
		tx:       params.Tx,
		metrics:  params.Metrics,
		logg:     logg,
	}, nil
}

type stores struct {
	carts    *Repository
	products *product.Repository
}

func (s *service) run(ctx context.Context, op string, fn func(st stores) (*models.Cart, error)) (*CartDTO, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cart, err := fn(stores{carts: s.carts.WithTx(tx), products: s.products.WithTx(tx)})
		if err != nil {
			return err
		}
		result = cart
		return nil
	})
	s.metrics.Observe(op, outcome(err))
	if err != nil {
		return nil, err
	}
	return NewCartDTO(result), nil
}

// GetCart returns the cart, creating an empty one when cartID is nil or unknown.
func (s *service) GetCart(ctx context.Context, cartID *uuid.UUID) (*CartDTO, error) {
	return s.run(ctx, "get", func(st stores) (*models.Cart, error) {
		cart, err := st.carts.FindByID(ctx, cartID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		return cart, nil
	})
}

// AddToCart reserves cart-side quantity only. Stock moves through
// IncreaseAndDebitStock and DecreaseAndCreditStock.
func (s *service) AddToCart(ctx context.Context, cartID, productID uuid.UUID, qty int) (*CartDTO, error) {
	return s.run(ctx, "add", func(st stores) (*models.Cart, error) {
		if err := checkQuantity(qty); err != nil {
			return nil, err
		}
		cart, err := st.carts.FindByID(ctx, &cartID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		p, err := loadProduct(ctx, st.products, productID)
		if err != nil {
			return nil, err
		}
		if qty > p.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock")
		}

		if line := findLine(cart, productID); line != nil {
			line.Quantity += qty
		} else {
			cart.Lines = append(cart.Lines, models.CartLine{
				CartID:     cart.ID,
				ProductID:  p.ID,
				Title:      p.Title,
				Price:      p.Price,
				Thumbnails: slices.Clone(p.Thumbnails),
				Quantity:   qty,
			})
		}
		return cart, saveCart(ctx, st.carts, cart)
	})
}

// IncreaseAndDebitStock grows an existing line and takes the same units from
// product stock in one transaction.
func (s *service) IncreaseAndDebitStock(ctx context.Context, cartID, productID uuid.UUID, qty int) (*CartDTO, error) {
	return s.run(ctx, "increase", func(st stores) (*models.Cart, error) {
		if err := checkQuantity(qty); err != nil {
			return nil, err
		}
		cart, err := loadCart(ctx, st.carts, cartID)
		if err != nil {
			return nil, err
		}
		line := findLine(cart, productID)
		if line == nil {
			return nil, errLineNotFound()
		}

		debited, err := st.products.DebitStock(ctx, productID, qty)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: debit stock")
		}
		if !debited {
			// distinguish a vanished product from a shortfall
			if _, err := loadProduct(ctx, st.products, productID); err != nil {
				return nil, err
			}
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
		}

		line.Quantity += qty
		line.DebitedQty += qty
		if err := saveCart(ctx, st.carts, cart); err != nil {
			return nil, err
		}
		s.metrics.AddStock(metrics.StockDebit, qty)
		return cart, nil
	})
}

// DecreaseAndCreditStock shrinks a line and returns the units to product
// stock in one transaction.
func (s *service) DecreaseAndCreditStock(ctx context.Context, cartID, productID uuid.UUID, qty int) (*CartDTO, error) {
	return s.run(ctx, "decrease", func(st stores) (*models.Cart, error) {
		if err := checkQuantity(qty); err != nil {
			return nil, err
		}
		cart, err := loadCart(ctx, st.carts, cartID)
		if err != nil {
			return nil, err
		}
		line := findLine(cart, productID)
		if line == nil {
			return nil, errLineNotFound()
		}
		if line.Quantity < qty {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested decrement exceeds held quantity").
				WithDetails(map[string]int{"held": line.Quantity, "requested": qty})
		}

		credited, err := st.products.CreditStock(ctx, productID, qty)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: credit stock")
		}
		if !credited {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		line.Quantity -= qty
		line.DebitedQty = max(0, line.DebitedQty-qty)
		if line.Quantity == 0 {
			removeLine(cart, productID)
		}
		if err := saveCart(ctx, st.carts, cart); err != nil {
			return nil, err
		}
		s.metrics.AddStock(metrics.StockCredit, qty)
		return cart, nil
	})
}

// RemoveLine discards the line and returns its debited units to stock.
func (s *service) RemoveLine(ctx context.Context, cartID, productID uuid.UUID) (*CartDTO, error) {
	return s.run(ctx, "remove", func(st stores) (*models.Cart, error) {
		cart, err := loadCart(ctx, st.carts, cartID)
		if err != nil {
			return nil, err
		}
		line := findLine(cart, productID)
		if line == nil {
			return nil, errLineNotFound()
		}
		if err := s.creditDebited(ctx, st.products, []models.CartLine{*line}); err != nil {
			return nil, err
		}
		removeLine(cart, productID)
		return cart, saveCart(ctx, st.carts, cart)
	})
}

// ClearCart empties the cart, crediting debited units. Clearing an empty cart
// succeeds.
func (s *service) ClearCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	return s.run(ctx, "clear", func(st stores) (*models.Cart, error) {
		cart, err := loadCart(ctx, st.carts, cartID)
		if err != nil {
			return nil, err
		}
		if err := s.creditDebited(ctx, st.products, cart.Lines); err != nil {
			return nil, err
		}
		cart.Lines = []models.CartLine{}
		return cart, saveCart(ctx, st.carts, cart)
	})
}

// SweepExpired deletes up to limit carts whose expiry passed, returning their
// debited units to stock in the same transaction. A cart is only credited
// when its delete matched the version that was read.
func (s *service) SweepExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	if limit <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "sweep limit must be positive")
	}
	var deleted int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)

		expired, err := carts.ListExpired(ctx, now, limit)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list expired carts")
		}
		for _, c := range expired {
			removed, err := carts.DeleteIfVersion(ctx, c.ID, c.Version)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete expired cart")
			}
			if !removed {
				// saved after it was read; the next sweep sees the new lines
				s.logg.Warn(s.logg.WithCartID(ctx, c.ID.String()), "expired cart changed during sweep")
				continue
			}
			if err := s.creditDebited(ctx, products, c.Lines); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	s.metrics.Observe("sweep", outcome(err))
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (s *service) creditDebited(ctx context.Context, products *product.Repository, lines []models.CartLine) error {
	for _, line := range lines {
		if line.DebitedQty <= 0 {
			continue
		}
		credited, err := products.CreditStock(ctx, line.ProductID, line.DebitedQty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: credit stock")
		}
		if !credited {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": line.ProductID.String(),
				"units":      line.DebitedQty,
			}), "skipping stock credit for deleted product")
			continue
		}
		s.metrics.AddStock(metrics.StockCredit, line.DebitedQty)
	}
	return nil
}

func loadCart(ctx context.Context, carts *Repository, id uuid.UUID) (*models.Cart, error) {
	cart, err := carts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	return cart, nil
}

func loadProduct(ctx context.Context, products *product.Repository, id uuid.UUID) (*models.Product, error) {
	p, err := products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return p, nil
}

func saveCart(ctx context.Context, carts *Repository, cart *models.Cart) error {
	if err := carts.Save(ctx, cart); err != nil {
		if errors.Is(err, ErrStaleCart) {
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "cart was modified concurrently")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save cart")
	}
	return nil
}

func checkQuantity(qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid quantity")
	}
	return nil
}

func errLineNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found in cart")
}

func findLine(cart *models.Cart, productID uuid.UUID) *models.CartLine {
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			return &cart.Lines[i]
		}
	}
	return nil
}

func removeLine(cart *models.Cart, productID uuid.UUID) {
	cart.Lines = slices.DeleteFunc(cart.Lines, func(l models.CartLine) bool {
		return l.ProductID == productID
	})
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}
