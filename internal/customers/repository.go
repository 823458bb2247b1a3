package customers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// Repository persists customers.
type Repository struct {
	repo.Base
}

// NewRepository constructs a customer repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CountBySourceTx counts customers of a source inside the given transaction.
func (r *Repository) CountBySourceTx(tx *gorm.DB, source enums.CustomerSource) (int64, error) {
	if tx == nil {
		return 0, errors.New("transaction required")
	}
	var count int64
	err := tx.Model(&models.Customer{}).Where("source = ?", source).Count(&count).Error
	return count, err
}

// CreateTx inserts a customer inside the given transaction.
func (r *Repository) CreateTx(tx *gorm.DB, customer *models.Customer) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(customer).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var row models.Customer
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Search lists customers, optionally filtered by a name/identity-code term.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	query := r.DB(ctx).Model(&models.Customer{})
	if term != "" {
		pattern := "%" + term + "%"
		query = query.Where("name ILIKE ? OR identity_code ILIKE ?", pattern, pattern)
	}
	var rows []models.Customer
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Save(customer).Error
}
