package orders

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

// Repository persists orders with their items and extra costs.
type Repository struct {
	repo.Base
}

// NewRepository constructs an order repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTx inserts the order graph (items, extra costs) in one statement set
// inside the given transaction.
func (r *Repository) CreateTx(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.DB(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.FabricType").
		Preload("Items.VariantType").
		Preload("ExtraCosts").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListFilter narrows List results; zero values mean "any".
type ListFilter struct {
	OrderType enums.OrderType
	Status    enums.OrderStatus
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	query := r.DB(ctx).Model(&models.Order{}).Preload("Customer")
	if filter.OrderType != "" {
		query = query.Where("order_type = ?", filter.OrderType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var rows []models.Order
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.DB(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountCreatedBetween counts orders in [from, to) for dashboard figures.
func (r *Repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// UpdateStatusTx updates the status inside the caller's transaction; used when
// a status change must commit together with another write.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status enums.OrderStatus) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
