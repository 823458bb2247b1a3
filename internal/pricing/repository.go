package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository is the GORM-backed CatalogReader.
type Repository struct {
	repo.Base
}

// NewRepository constructs a pricing repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// TiersFor returns the product's tiers with an exact variant match.
func (r *Repository) TiersFor(ctx context.Context, productID uuid.UUID, variantTypeID *uuid.UUID) ([]models.PriceTier, error) {
	query := r.DB(ctx).Model(&models.PriceTier{}).Where("product_id = ?", productID)
	if variantTypeID == nil {
		query = query.Where("variant_type_id IS NULL")
	} else {
		query = query.Where("variant_type_id = ?", *variantTypeID)
	}

	var rows []models.PriceTier
	if err := query.Order("min_qty ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FabricSurcharge returns the surcharge row for the pair, or nil when absent.
func (r *Repository) FabricSurcharge(ctx context.Context, fabricTypeID uuid.UUID, variantTypeID *uuid.UUID) (*models.FabricPrice, error) {
	query := r.DB(ctx).Where("fabric_type_id = ?", fabricTypeID)
	if variantTypeID == nil {
		query = query.Where("variant_type_id IS NULL")
	} else {
		query = query.Where("variant_type_id = ?", *variantTypeID)
	}

	var row models.FabricPrice
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
