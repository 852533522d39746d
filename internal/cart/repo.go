package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
)

// DefaultTTL is how long a cart lives after creation.
const DefaultTTL = 72 * time.Hour

// ErrStaleCart is returned by Save when another writer bumped the version first.
var ErrStaleCart = errors.New("cart was modified concurrently")

// Repository persists carts and their ordered lines.
type Repository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewRepository binds the repository to db. A non-positive ttl falls back to
// DefaultTTL.
func NewRepository(db *gorm.DB, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{db: db, ttl: ttl, now: time.Now}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, ttl: r.ttl, now: r.now}
}

// FindByID returns the cart for id, creating an empty one with a fresh id
// when id is nil, unknown or expired. Lookups never move expires_at.
func (r *Repository) FindByID(ctx context.Context, id *uuid.UUID) (*models.Cart, error) {
	if id != nil && *id != uuid.Nil {
		cart, err := r.Get(ctx, *id)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return r.create(ctx)
}

// Get loads a live cart with lines in position order. A cart past its
// expiry reads as gorm.ErrRecordNotFound even before the sweep removes it.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		First(&cart, "id = ? AND expires_at > ?", id, r.now().UTC()).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) create(ctx context.Context) (*models.Cart, error) {
	now := r.now().UTC().Truncate(time.Microsecond)
	cart := &models.Cart{
		Version:   1,
		ExpiresAt: now.Add(r.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cart).Error; err != nil {
		return nil, err
	}
	cart.Lines = []models.CartLine{}
	return cart, nil
}

// Save bumps the cart version if it still matches and replaces the stored
// lines with cart.Lines. Must run inside a transaction.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]any{
			"version":    gorm.Expr("version + 1"),
			"updated_at": r.now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleCart
	}

	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	for i := range cart.Lines {
		cart.Lines[i].CartID = cart.ID
		cart.Lines[i].Position = i
	}
	if len(cart.Lines) > 0 {
		if err := db.Create(&cart.Lines).Error; err != nil {
			return err
		}
	}
	cart.Version++
	return nil
}

// Delete removes the cart and its lines. Deleting an absent cart is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.DeleteByIDs(ctx, []uuid.UUID{id})
	return err
}

// DeleteByIDs removes the listed carts and returns how many cart rows went away.
func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id IN ?", ids).Delete(&models.CartLine{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

// ListExpired returns up to limit carts whose expiry is at or before now,
// oldest first, with lines loaded. Rows are locked for the rest of the
// transaction; rows already locked by another writer are skipped.
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Preload("Lines", orderedLines).
		Where("expires_at <= ?", now.UTC()).
		Order("expires_at").
		Limit(limit).
		Find(&carts).Error
	return carts, err
}

// DeleteIfVersion removes the cart and its lines only while the stored
// version still equals version. False means another writer saved the cart
// after it was read and nothing was deleted.
func (r *Repository) DeleteIfVersion(ctx context.Context, id uuid.UUID, version int) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Where("id = ? AND version = ?", id, version).Delete(&models.Cart{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := db.Where("cart_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
