package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository persists catalog master data.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.DB(ctx).Preload("Printer").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).Preload("Printer").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Save(product).Error
}

func (r *Repository) CreatePrinter(ctx context.Context, printer *models.Printer) error {
	return r.DB(ctx).Create(printer).Error
}

func (r *Repository) ListPrinters(ctx context.Context) ([]models.Printer, error) {
	var rows []models.Printer
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateVariantType(ctx context.Context, variant *models.VariantType) error {
	return r.DB(ctx).Create(variant).Error
}

func (r *Repository) ListVariantTypes(ctx context.Context) ([]models.VariantType, error) {
	var rows []models.VariantType
	err := r.DB(ctx).Order("code ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindVariantTypeByID(ctx context.Context, id uuid.UUID) (*models.VariantType, error) {
	var row models.VariantType
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateFabricType(ctx context.Context, fabric *models.FabricType) error {
	return r.DB(ctx).Create(fabric).Error
}

func (r *Repository) ListFabricTypes(ctx context.Context) ([]models.FabricType, error) {
	var rows []models.FabricType
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) UpsertFabricPrice(ctx context.Context, price *models.FabricPrice) error {
	return r.DB(ctx).Create(price).Error
}

func (r *Repository) ListFabricPrices(ctx context.Context, fabricTypeID uuid.UUID) ([]models.FabricPrice, error) {
	var rows []models.FabricPrice
	err := r.DB(ctx).Where("fabric_type_id = ?", fabricTypeID).Find(&rows).Error
	return rows, err
}

// TiersForProduct returns every tier for the product across all variants.
func (r *Repository) TiersForProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceTier, error) {
	var rows []models.PriceTier
	err := r.DB(ctx).Where("product_id = ?", productID).Order("min_qty ASC").Find(&rows).Error
	return rows, err
}

// ReplaceTiersTx swaps a product's tier set inside the given transaction.
func (r *Repository) ReplaceTiersTx(tx *gorm.DB, productID uuid.UUID, tiers []models.PriceTier) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.PriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}
