package deposits

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository persists deposits with their priced items.
type Repository struct {
	repo.Base
}

// NewRepository constructs a deposit repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTx inserts the deposit and its items inside the given transaction.
func (r *Repository) CreateTx(tx *gorm.DB, deposit *models.Deposit) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(deposit).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	var row models.Deposit
	err := r.DB(ctx).Preload("Items").First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Deposit, error) {
	var rows []models.Deposit
	err := r.DB(ctx).Preload("Items").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// SetInvoiceTx links the issued deposit invoice inside the same transaction.
func (r *Repository) SetInvoiceTx(tx *gorm.DB, depositID, invoiceID uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Model(&models.Deposit{}).
		Where("id = ?", depositID).
		Update("invoice_id", invoiceID).Error
}

func (r *Repository) Update(ctx context.Context, deposit *models.Deposit) error {
	return r.DB(ctx).Save(deposit).Error
}

// ListPendingReminders returns unpaid deposits whose expiry falls on or before
// the cutoff and which have not yet had a reminder sent.
func (r *Repository) ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Deposit, error) {
	var rows []models.Deposit
	err := r.DB(ctx).
		Where("paid_off = false").
		Where("reminder_sent_at IS NULL").
		Where("expires_at IS NOT NULL AND expires_at <= ?", cutoff).
		Order("expires_at ASC").
		Find(&rows).Error
	return rows, err
}
