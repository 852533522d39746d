package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	product "github.com/angelmondragon/tienda-backend/internal/products"
	"github.com/angelmondragon/tienda-backend/pkg/db/dbtest"
	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	"github.com/angelmondragon/tienda-backend/pkg/metrics"
)

type fixture struct {
	svc      Service
	carts    *Repository
	products *product.Repository
	conn     *gorm.DB
	clock    time.Time
}

func newFixture(t *testing.T, m *metrics.CartMetrics) *fixture {
	t.Helper()
	client, conn := dbtest.Client(t)
	f := &fixture{
		carts:    NewRepository(conn, time.Hour),
		products: product.NewRepository(conn),
		conn:     conn,
		clock:    time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	f.carts.now = func() time.Time { return f.clock }

	svc, err := NewService(ServiceParams{
		Carts:    f.carts,
		Products: f.products,
		Tx:       client,
		Metrics:  m,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) createProduct(t *testing.T, code string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Code:        code,
		Title:       "Termo " + code,
		Description: "Termo de acero",
		Category:    enums.ProductCategoryBotellas,
		Subcategory: "Termos",
		Price:       1250,
		Stock:       stock,
		Thumbnails: []models.Thumbnail{
			{URL: "https://cdn.example.com/1.png", Filename: "1.png"},
			{URL: "https://cdn.example.com/2.png", Filename: "2.png"},
		},
		DisplayClass: enums.DisplayClassBG1,
	}
	created, err := f.products.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) newCart(t *testing.T) uuid.UUID {
	t.Helper()
	dto, err := f.svc.GetCart(context.Background(), nil)
	require.NoError(t, err)
	return dto.ID
}

func lineFor(dto *CartDTO, productID uuid.UUID) *CartLineDTO {
	for i := range dto.Lines {
		if dto.Lines[i].ProductID == productID {
			return &dto.Lines[i]
		}
	}
	return nil
}
