package forecasts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/outbox"
	"github.com/karyatex/konveksi-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type forecastsRepository interface {
	CreateTx(tx *gorm.DB, forecast *models.Forecast) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Forecast, error)
	List(ctx context.Context, filter ListFilter) ([]models.Forecast, error)
	Update(ctx context.Context, forecast *models.Forecast) error
	ListEstimatesPending(ctx context.Context, limit int) ([]models.Forecast, error)
	CreateStockItem(ctx context.Context, item *models.StockItem) error
	FindStockItemByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service creates production forecasts from each of the three origins and
// serves the derived views over them.
type Service interface {
	CreateFromStock(ctx context.Context, input StockInput) (*models.Forecast, error)
	CreateFromOrderItem(ctx context.Context, input OrderItemInput) (*models.Forecast, error)
	CreateFromOrder(ctx context.Context, input OrderInput) (*models.Forecast, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Forecast, error)
	List(ctx context.Context, filter ListFilter) ([]models.Forecast, error)
	Sizes(ctx context.Context, id uuid.UUID) ([]SizeCount, error)
	MarkEstimateSent(ctx context.Context, id uuid.UUID) (*models.Forecast, error)
	ListEstimatesPending(ctx context.Context, limit int) ([]models.Forecast, error)
}

type service struct {
	repo   forecastsRepository
	events eventEmitter
	tx     txRunner
	now    func() time.Time
}

// SizeInput is one size row of a stock batch.
type SizeInput struct {
	Size     string
	Quantity int
}

// StockInput creates a stock batch and its forecast together.
type StockInput struct {
	ProductID    uuid.UUID
	FabricTypeID uuid.UUID
	Sizes        []SizeInput
	PONumber     *string
	Note         *string
	Actor        *uuid.UUID
}

// OrderItemInput forecasts a single konveksi order line.
type OrderItemInput struct {
	OrderItemID uuid.UUID
	PONumber    *string
	Note        *string
	Actor       *uuid.UUID
}

// OrderInput forecasts a whole marketplace order.
type OrderInput struct {
	OrderID  uuid.UUID
	PONumber *string
	Note     *string
	Actor    *uuid.UUID
}

// NewService builds the forecast service.
func NewService(repo forecastsRepository, events eventEmitter, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("forecast repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, events: events, tx: tx, now: time.Now}, nil
}

// CreateFromStock stores the stock batch, then the forecast covering its full
// size total.
func (s *service) CreateFromStock(ctx context.Context, input StockInput) (*models.Forecast, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.FabricTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fabric_type_id is required")
	}
	if len(input.Sizes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one size row is required")
	}
	total := 0
	sizes := make([]models.StockItemSize, len(input.Sizes))
	for i, row := range input.Sizes {
		if strings.TrimSpace(row.Size) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size label must not be blank")
		}
		if row.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size quantity must be positive")
		}
		sizes[i] = models.StockItemSize{Size: row.Size, Quantity: row.Quantity}
		total += row.Quantity
	}

	item := &models.StockItem{
		ProductID:    input.ProductID,
		FabricTypeID: input.FabricTypeID,
		Sizes:        sizes,
	}
	if err := s.repo.CreateStockItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock item")
	}

	forecast := &models.Forecast{
		Origin:      enums.ForecastOriginStock,
		StockItemID: &item.ID,
		Quantity:    total,
		PONumber:    input.PONumber,
		Note:        input.Note,
	}
	if err := s.persist(ctx, forecast, input.Actor); err != nil {
		return nil, err
	}
	return forecast, nil
}

// CreateFromOrderItem forecasts one konveksi order line; quantity follows the
// line quantity.
func (s *service) CreateFromOrderItem(ctx context.Context, input OrderItemInput) (*models.Forecast, error) {
	if input.OrderItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_item_id is required")
	}
	item, err := s.repo.FindOrderItemByID(ctx, input.OrderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order item")
	}

	forecast := &models.Forecast{
		Origin:      enums.ForecastOriginKonveksi,
		OrderItemID: &item.ID,
		Quantity:    item.Quantity,
		PONumber:    input.PONumber,
		Note:        input.Note,
	}
	if err := s.persist(ctx, forecast, input.Actor); err != nil {
		return nil, err
	}
	return forecast, nil
}

// CreateFromOrder forecasts a marketplace order as one production run.
func (s *service) CreateFromOrder(ctx context.Context, input OrderInput) (*models.Forecast, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	order, err := s.repo.FindOrderByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	if order.OrderType != enums.OrderTypeMarketplace {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "whole-order forecasts apply to marketplace orders; forecast konveksi orders per item")
	}
	quantity := 0
	if order.Quantity != nil {
		quantity = *order.Quantity
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no quantity to forecast")
	}

	forecast := &models.Forecast{
		Origin:   enums.ForecastOriginMarketplace,
		OrderID:  &order.ID,
		Quantity: quantity,
		PONumber: input.PONumber,
		Note:     input.Note,
	}
	if err := s.persist(ctx, forecast, input.Actor); err != nil {
		return nil, err
	}
	return forecast, nil
}

// persist writes the forecast and its created event in one transaction.
func (s *service) persist(ctx context.Context, forecast *models.Forecast, actor *uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, forecast); err != nil {
			return err
		}
		var actorRef *outbox.ActorRef
		if actor != nil {
			actorRef = &outbox.ActorRef{UserID: *actor}
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventForecastCreated,
			AggregateType: enums.AggregateForecast,
			AggregateID:   forecast.ID,
			Actor:         actorRef,
			Data: payloads.ForecastCreatedEvent{
				ForecastID:  forecast.ID,
				Origin:      forecast.Origin,
				Quantity:    forecast.Quantity,
				StockItemID: forecast.StockItemID,
				OrderItemID: forecast.OrderItemID,
				OrderID:     forecast.OrderID,
			},
		})
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create forecast")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Forecast, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "forecast id is required")
	}
	forecast, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "forecast not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup forecast")
	}
	return forecast, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Forecast, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list forecasts")
	}
	return rows, nil
}

// Sizes returns the normalized size breakdown. Only stock forecasts carry
// size rows; the other origins come back empty.
func (s *service) Sizes(ctx context.Context, id uuid.UUID) ([]SizeCount, error) {
	forecast, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if forecast.Origin != enums.ForecastOriginStock || forecast.StockItem == nil {
		return nil, nil
	}
	rows := make([]SizeRow, len(forecast.StockItem.Sizes))
	for i, size := range forecast.StockItem.Sizes {
		rows[i] = SizeRow{Size: size.Size, Quantity: size.Quantity}
	}
	return SizeBreakdown(rows), nil
}

func (s *service) MarkEstimateSent(ctx context.Context, id uuid.UUID) (*models.Forecast, error) {
	forecast, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if forecast.EstimateSentAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "estimate already sent")
	}
	sent := s.now()
	forecast.EstimateSentAt = &sent
	if err := s.repo.Update(ctx, forecast); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update forecast")
	}
	return forecast, nil
}

func (s *service) ListEstimatesPending(ctx context.Context, limit int) ([]models.Forecast, error) {
	rows, err := s.repo.ListEstimatesPending(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending estimates")
	}
	return rows, nil
}
