package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/angelmondragon/tienda-backend/pkg/db"
	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tienda-backend/pkg/errors"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minThumbnails = 2

var codePattern = regexp.MustCompile(`^[A-Z]+$`)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductByCode(ctx context.Context, code string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteProductByCode(ctx context.Context, code string) error
}

// ThumbnailInput references an image hosted elsewhere.
type ThumbnailInput struct {
	URL      string
	Filename string
}

// CreateProductInput holds the payload to create a product.
type CreateProductInput struct {
	Title       string
	Description string
	Code        string
	Price       int64
	Stock       int
	Category    string
	Subcategory string
	Thumbnails  []ThumbnailInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Code        *string
	Price       *int64
	Stock       *int
	Category    *string
	Subcategory *string
	Thumbnails  *[]ThumbnailInput
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		Title:        capitalize(input.Title),
		Description:  capitalize(input.Description),
		Code:         normalizeCode(input.Code),
		Price:        input.Price,
		Stock:        input.Stock,
		Category:     enums.ProductCategory(capitalize(input.Category)),
		Subcategory:  capitalize(input.Subcategory),
		Thumbnails:   toThumbnails(input.Thumbnails),
		DisplayClass: enums.RandomDisplayClass(),
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	var created *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureCodeFree(ctx, txRepo, product.Code, uuid.Nil); err != nil {
			return err
		}
		var err error
		created, err = txRepo.Create(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return duplicateCode(product.Code)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProductDTO(created), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return NewProductDTO(product), nil
}

func (s *service) GetProductByCode(ctx context.Context, code string) (*ProductDTO, error) {
	product, err := s.repo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, mapLookupError(err)
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	filter := ListFilter{
		Title:         input.Title,
		Subcategory:   capitalize(input.Subcategory),
		Code:          normalizeCode(input.Code),
		OnlyAvailable: input.Available == nil || *input.Available,
	}
	if raw := strings.TrimSpace(input.Category); raw != "" {
		category, err := enums.ParseProductCategory(capitalize(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filter.Category = &category
	}

	page := input.Pagination.Normalize()
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	items := make([]ProductDTO, len(rows))
	for i := range rows {
		items[i] = *NewProductDTO(&rows[i])
	}
	result := pagination.NewPage(items, total, page)
	return &result, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}

		applyUpdate(product, input)
		if err := validateProduct(product); err != nil {
			return err
		}
		if err := ensureCodeFree(ctx, txRepo, product.Code, product.ID); err != nil {
			return err
		}

		if err := txRepo.Save(ctx, product); err != nil {
			switch {
			case errors.Is(err, ErrStaleProduct):
				return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "product was modified concurrently")
			case db.IsUniqueViolation(err, ""):
				return duplicateCode(product.Code)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) DeleteProductByCode(ctx context.Context, code string) error {
	deleted, err := s.repo.DeleteByCode(ctx, normalizeCode(code))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = capitalize(*input.Title)
	}
	if input.Description != nil {
		product.Description = capitalize(*input.Description)
	}
	if input.Code != nil {
		product.Code = normalizeCode(*input.Code)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = enums.ProductCategory(capitalize(*input.Category))
	}
	if input.Subcategory != nil {
		product.Subcategory = capitalize(*input.Subcategory)
	}
	if input.Thumbnails != nil {
		product.Thumbnails = toThumbnails(*input.Thumbnails)
	}
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Title == "":
		return validation("title is required")
	case p.Description == "":
		return validation("description is required")
	case !codePattern.MatchString(p.Code):
		return validation("code must contain only letters")
	case p.Price <= 0:
		return validation("price must be greater than zero")
	case p.Stock < 0:
		return validation("stock cannot be negative")
	case !p.Category.IsValid():
		return validation(fmt.Sprintf("invalid category %q", p.Category))
	case !p.Category.AllowsSubcategory(p.Subcategory):
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid subcategory %q for %s", p.Subcategory, p.Category)).
			WithDetails(map[string]any{"allowed": p.Category.Subcategories()})
	case len(p.Thumbnails) < minThumbnails:
		return validation(fmt.Sprintf("at least %d thumbnails are required", minThumbnails))
	}
	for _, t := range p.Thumbnails {
		if t.URL == "" || t.Filename == "" {
			return validation("thumbnails require url and filename")
		}
	}
	return nil
}

func ensureCodeFree(ctx context.Context, repo *Repository, code string, self uuid.UUID) error {
	existing, err := repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup product code")
	case existing.ID != self:
		return duplicateCode(code)
	}
	return nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}

func duplicateCode(code string) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "product code %s already exists", code)
}

func validation(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg)
}

func toThumbnails(in []ThumbnailInput) []models.Thumbnail {
	out := make([]models.Thumbnail, 0, len(in))
	for _, t := range in {
		out = append(out, models.Thumbnail{
			URL:      strings.TrimSpace(t.URL),
			Filename: strings.TrimSpace(t.Filename),
		})
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(value string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(value)))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
