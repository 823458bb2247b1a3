package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/repo"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// Repository persists the warehouse masters and the append-only stock ledger.
type Repository struct {
	repo.Base
}

// NewRepository constructs a warehouse repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreateMaterial(ctx context.Context, material *models.Material) error {
	return r.DB(ctx).Create(material).Error
}

func (r *Repository) FindMaterialByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var row models.Material
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var rows []models.Material
	err := r.DB(ctx).Order("code ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return r.DB(ctx).Create(supplier).Error
}

func (r *Repository) FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var row models.Supplier
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var rows []models.Supplier
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	return r.DB(ctx).Create(po).Error
}

func (r *Repository) FindPurchaseOrderByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var row models.PurchaseOrder
	err := r.DB(ctx).Preload("Supplier").Preload("Items").First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var rows []models.PurchaseOrder
	err := r.DB(ctx).Preload("Supplier").Order("ordered_at DESC").Find(&rows).Error
	return rows, err
}

// CreateReceivingTx inserts the receiving event and its positive ledger
// movement together.
func (r *Repository) CreateReceivingTx(tx *gorm.DB, receiving *models.Receiving, movement *models.StockMovement) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if err := tx.Create(receiving).Error; err != nil {
		return err
	}
	movement.ReferenceID = receiving.ID
	return tx.Create(movement).Error
}

// CreateIssuingTx inserts the issuing event and its negative ledger movement
// together.
func (r *Repository) CreateIssuingTx(tx *gorm.DB, issuing *models.Issuing, movement *models.StockMovement) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if err := tx.Create(issuing).Error; err != nil {
		return err
	}
	movement.ReferenceID = issuing.ID
	return tx.Create(movement).Error
}

// CreateOpnameTx inserts the opname record and, when the adjustment is
// non-zero, the correcting ledger movement.
func (r *Repository) CreateOpnameTx(tx *gorm.DB, opname *models.StockOpname, movement *models.StockMovement) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if err := tx.Create(opname).Error; err != nil {
		return err
	}
	if movement == nil {
		return nil
	}
	movement.ReferenceID = opname.ID
	return tx.Create(movement).Error
}

// StockLevel folds the ledger into the current on-hand count.
func (r *Repository) StockLevel(ctx context.Context, materialID uuid.UUID) (int, error) {
	var total struct {
		Quantity int
	}
	err := r.DB(ctx).Model(&models.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0) AS quantity").
		Where("material_id = ?", materialID).
		Scan(&total).Error
	return total.Quantity, err
}

// StockLevelTx folds the ledger inside the caller's transaction so opname
// adjustments compute against a stable view.
func (r *Repository) StockLevelTx(tx *gorm.DB, materialID uuid.UUID) (int, error) {
	if tx == nil {
		return 0, errors.New("transaction required")
	}
	var total struct {
		Quantity int
	}
	err := tx.Model(&models.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0) AS quantity").
		Where("material_id = ?", materialID).
		Scan(&total).Error
	return total.Quantity, err
}

// MovementFilter bounds ListMovements; nil bounds mean unbounded.
type MovementFilter struct {
	From *time.Time
	To   *time.Time
}

// ListMovements returns a material's ledger oldest first, for the stock card.
func (r *Repository) ListMovements(ctx context.Context, materialID uuid.UUID, filter MovementFilter) ([]models.StockMovement, error) {
	query := r.DB(ctx).Where("material_id = ?", materialID)
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at < ?", *filter.To)
	}
	var rows []models.StockMovement
	err := query.Order("occurred_at ASC, created_at ASC").Find(&rows).Error
	return rows, err
}

// OpeningBalance sums all movements before the given time, seeding the stock
// card's running balance.
func (r *Repository) OpeningBalance(ctx context.Context, materialID uuid.UUID, before time.Time) (int, error) {
	var total struct {
		Quantity int
	}
	err := r.DB(ctx).Model(&models.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0) AS quantity").
		Where("material_id = ? AND occurred_at < ?", materialID, before).
		Scan(&total).Error
	return total.Quantity, err
}
