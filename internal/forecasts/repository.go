package forecasts

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

// Repository persists forecasts and stock batches.
type Repository struct {
	repo.Base
}

// NewRepository constructs a forecast repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTx inserts a forecast inside the given transaction.
func (r *Repository) CreateTx(tx *gorm.DB, forecast *models.Forecast) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(forecast).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Forecast, error) {
	var row models.Forecast
	err := r.DB(ctx).
		Preload("StockItem.Product.Printer").
		Preload("StockItem.FabricType").
		Preload("StockItem.Sizes").
		Preload("OrderItem.Product.Printer").
		Preload("OrderItem.FabricType").
		Preload("OrderItem.Order.Customer").
		Preload("Order.Customer").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListFilter narrows List results; zero values mean "any".
type ListFilter struct {
	Origin enums.ForecastOrigin
	From   *time.Time
	To     *time.Time
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Forecast, error) {
	query := r.DB(ctx).Model(&models.Forecast{})
	if filter.Origin != "" {
		query = query.Where("origin = ?", filter.Origin)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	var rows []models.Forecast
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Update(ctx context.Context, forecast *models.Forecast) error {
	return r.DB(ctx).Save(forecast).Error
}

// CountCreatedBetween counts forecasts in [from, to) for dashboard figures.
func (r *Repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Forecast{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// ListEstimatesPending returns forecasts whose customer estimate has not been
// sent yet, oldest first.
func (r *Repository) ListEstimatesPending(ctx context.Context, limit int) ([]models.Forecast, error) {
	query := r.DB(ctx).
		Where("estimate_sent_at IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.Forecast
	err := query.Find(&rows).Error
	return rows, err
}

// CreateStockItem inserts a stock batch with its size rows.
func (r *Repository) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *Repository) FindStockItemByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var row models.StockItem
	err := r.DB(ctx).
		Preload("Product.Printer").
		Preload("FabricType").
		Preload("Sizes").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var row models.OrderItem
	err := r.DB(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.DB(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
