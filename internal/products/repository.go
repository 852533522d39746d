package product

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists products and owns every stock mutation.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID returns gorm.ErrRecordNotFound when the product does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row at version 1.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.Version = 1
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ErrStaleProduct is returned by Save when the row changed since it was read.
var ErrStaleProduct = errors.New("product was modified concurrently")

// Save rewrites the catalog fields of product, guarded by the version it was
// loaded at. On success product carries the bumped version.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	next := *product
	next.Version = product.Version + 1
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Select(updatableColumns).
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleProduct
	}
	*product = next
	return nil
}

var updatableColumns = []string{
	"code", "title", "description", "category", "subcategory",
	"price", "stock", "thumbnails", "version", "updated_at",
}

// Delete removes the product. Returns false when nothing matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) DeleteByCode(ctx context.Context, code string) (bool, error) {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}

// List applies filters and offset pagination, returning the window and the
// total number of matches.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if title := strings.TrimSpace(filter.Title); title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Subcategory != "" {
		query = query.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.OnlyAvailable {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.
		Order("created_at DESC").
		Order("id").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// DebitStock subtracts qty when enough stock remains. The boolean is false
// when the product is missing or the stock is insufficient; nothing changes
// in that case.
func (r *Repository) DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock - ?", qty),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CreditStock returns qty units to the product. A product that no longer
// exists is skipped and reported with false.
func (r *Repository) CreditStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return true, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":   gorm.Expr("stock + ?", qty),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
