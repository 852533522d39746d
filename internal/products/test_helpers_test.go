package product

import (
	"context"
	"testing"

	"github.com/angelmondragon/tienda-backend/pkg/db/dbtest"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, client)
	require.NoError(t, err)
	return svc, repo, conn
}

func validInput(code string) CreateProductInput {
	return CreateProductInput{
		Title:       "termo stanley",
		Description: "TERMO DE ACERO",
		Code:        code,
		Price:       1500,
		Stock:       10,
		Category:    "botellas",
		Subcategory: "termos",
		Thumbnails: []ThumbnailInput{
			{URL: "https://cdn.example.com/a.png", Filename: "a.png"},
			{URL: "https://cdn.example.com/b.png", Filename: "b.png"},
		},
	}
}

func mustCreate(t *testing.T, svc Service, input CreateProductInput) *ProductDTO {
	t.Helper()
	dto, err := svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	return dto
}
