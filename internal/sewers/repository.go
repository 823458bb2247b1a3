package sewers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository persists sewing partners and their work distributions.
type Repository struct {
	repo.Base
}

// NewRepository constructs a sewer repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreateSewer(ctx context.Context, sewer *models.Sewer) error {
	return r.DB(ctx).Create(sewer).Error
}

func (r *Repository) FindSewerByID(ctx context.Context, id uuid.UUID) (*models.Sewer, error) {
	var row models.Sewer
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListSewers(ctx context.Context) ([]models.Sewer, error) {
	var rows []models.Sewer
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) UpdateSewer(ctx context.Context, sewer *models.Sewer) error {
	return r.DB(ctx).Save(sewer).Error
}

func (r *Repository) CreateDistribution(ctx context.Context, dist *models.SewerDistribution) error {
	return r.DB(ctx).Create(dist).Error
}

func (r *Repository) FindDistributionByID(ctx context.Context, id uuid.UUID) (*models.SewerDistribution, error) {
	var row models.SewerDistribution
	if err := r.DB(ctx).Preload("Sewer").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindDistributionByTrackingCode(ctx context.Context, code string) (*models.SewerDistribution, error) {
	var row models.SewerDistribution
	if err := r.DB(ctx).Preload("Sewer").First(&row, "tracking_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListDistributionsForForecast(ctx context.Context, forecastID uuid.UUID) ([]models.SewerDistribution, error) {
	var rows []models.SewerDistribution
	err := r.DB(ctx).Preload("Sewer").
		Where("forecast_id = ?", forecastID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
