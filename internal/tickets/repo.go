package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/tienda-backend/pkg/db/models"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
	"github.com/angelmondragon/tienda-backend/pkg/pagination"
)

// ListFilter narrows ticket listings. Nil fields match everything.
type ListFilter struct {
	UserID *uuid.UUID
	Status *enums.TicketStatus
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Ticket, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Ticket{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Ticket
	err := query.
		Order("date_created DESC").
		Order("id").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	return rows, total, err
}

// UpdateStatus reports false when no ticket has the id.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TicketStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}
