package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// Repository persists complaint tickets and their action log.
type Repository struct {
	repo.Base
}

// NewRepository constructs a ticket repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTx inserts a ticket inside the given transaction.
func (r *Repository) CreateTx(tx *gorm.DB, ticket *models.ComplaintTicket) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(ticket).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ComplaintTicket, error) {
	var row models.ComplaintTicket
	err := r.DB(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.ComplaintTicket, error) {
	var row models.ComplaintTicket
	err := r.DB(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListFilter narrows List results; zero values mean "any".
type ListFilter struct {
	Status  enums.TicketStatus
	OrderID *uuid.UUID
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.ComplaintTicket, error) {
	query := r.DB(ctx).Model(&models.ComplaintTicket{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	var rows []models.ComplaintTicket
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// UpdateStatusTx moves the ticket and appends the action row in the caller's
// transaction.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, ticketID uuid.UUID, status enums.TicketStatus, action *models.ComplaintAction) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if err := tx.Model(&models.ComplaintTicket{}).
		Where("id = ?", ticketID).
		Update("status", status).Error; err != nil {
		return err
	}
	return tx.Create(action).Error
}

// CountCreatedBetween counts tickets in [from, to) for dashboard figures.
func (r *Repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.ComplaintTicket{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
