package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository reads checkpoint presence from the seven checkpoint tables.
type Repository struct {
	repo.Base
}

// NewRepository constructs a progress repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CheckpointsFor runs one existence query per checkpoint category.
func (r *Repository) CheckpointsFor(ctx context.Context, forecastID uuid.UUID) (Checkpoints, error) {
	var (
		checkpoints Checkpoints
		err         error
	)
	if checkpoints.PrintVerified, err = r.exists(ctx, &models.PrintVerification{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	if checkpoints.QCLine, err = r.exists(ctx, &models.QCLineVerification{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	if checkpoints.QCCutting, err = r.exists(ctx, &models.QCCuttingVerification{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	if checkpoints.QCFinishing, err = r.exists(ctx, &models.QCFinishing{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	if checkpoints.QCFinishingDefect, err = r.exists(ctx, &models.QCFinishingDefect{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	if checkpoints.WarehouseDelivery, err = r.exists(ctx, &models.WarehouseDelivery{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	if checkpoints.WarehouseReceipt, err = r.exists(ctx, &models.WarehouseReceipt{}, forecastID); err != nil {
		return Checkpoints{}, err
	}
	return checkpoints, nil
}

func (r *Repository) exists(ctx context.Context, model any, forecastID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(model).Where("forecast_id = ?", forecastID).Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
