package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository persists the seven checkpoint record types. Each table holds at
// most one row per forecast; the unique index enforces it.
type Repository struct {
	repo.Base
}

// NewRepository constructs a verification repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreatePrint(ctx context.Context, row *models.PrintVerification) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindPrintByForecast(ctx context.Context, forecastID uuid.UUID) (*models.PrintVerification, error) {
	var row models.PrintVerification
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateQCLine(ctx context.Context, row *models.QCLineVerification) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindQCLineByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCLineVerification, error) {
	var row models.QCLineVerification
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateQCCutting(ctx context.Context, row *models.QCCuttingVerification) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindQCCuttingByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCCuttingVerification, error) {
	var row models.QCCuttingVerification
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateQCFinishing(ctx context.Context, row *models.QCFinishing) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindQCFinishingByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishing, error) {
	var row models.QCFinishing
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateQCFinishingDefect(ctx context.Context, row *models.QCFinishingDefect) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindQCFinishingDefectByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishingDefect, error) {
	var row models.QCFinishingDefect
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateWarehouseDelivery(ctx context.Context, row *models.WarehouseDelivery) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindWarehouseDeliveryByForecast(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseDelivery, error) {
	var row models.WarehouseDelivery
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateWarehouseReceipt(ctx context.Context, row *models.WarehouseReceipt) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) FindWarehouseReceiptByForecast(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseReceipt, error) {
	var row models.WarehouseReceipt
	if err := r.DB(ctx).First(&row, "forecast_id = ?", forecastID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CountFinishingDefectsBetween counts defect records in [from, to) for
// dashboard figures.
func (r *Repository) CountFinishingDefectsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.QCFinishingDefect{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
