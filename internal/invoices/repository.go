package invoices

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository persists invoices.
type Repository struct {
	repo.Base
}

// NewRepository constructs an invoice repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CountForMonthTx counts invoices issued in the same month inside the given
// transaction; used to derive the next monthly sequence number.
func (r *Repository) CountForMonthTx(tx *gorm.DB, issued time.Time) (int64, error) {
	if tx == nil {
		return 0, errors.New("transaction required")
	}
	start := time.Date(issued.Year(), issued.Month(), 1, 0, 0, 0, 0, issued.Location())
	end := start.AddDate(0, 1, 0)
	var count int64
	err := tx.Model(&models.Invoice{}).
		Where("issued_date >= ? AND issued_date < ?", start, end).
		Count(&count).Error
	return count, err
}

// CreateTx inserts an invoice inside the given transaction.
func (r *Repository) CreateTx(tx *gorm.DB, invoice *models.Invoice) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(invoice).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var row models.Invoice
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.DB(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) List(ctx context.Context) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.DB(ctx).Order("issued_date DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.DB(ctx).Save(invoice).Error
}
