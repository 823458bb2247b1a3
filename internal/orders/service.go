package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/pricing"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/outbox"
	"github.com/karyatex/konveksi-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ordersRepository interface {
	CreateTx(tx *gorm.DB, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type linePricer interface {
	Resolve(ctx context.Context, in pricing.LineInput) (*pricing.Quote, error)
}

// InvoiceIssueInput mirrors the invoice service's issuance input so the order
// service does not depend on the invoices package directly.
type InvoiceIssueInput struct {
	OrderID          uuid.UUID
	Total            decimal.Decimal
	IsDepositInvoice bool
	DeliveryDate     *time.Time
}

type invoiceIssuer interface {
	IssueTx(tx *gorm.DB, input InvoiceIssueInput) (*models.Invoice, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type variantReader interface {
	FindVariantTypeByID(ctx context.Context, id uuid.UUID) (*models.VariantType, error)
}

// Service creates and manages orders for both intake channels.
type Service interface {
	CreateKonveksi(ctx context.Context, input KonveksiInput) (*CreateResult, error)
	CreateMarketplace(ctx context.Context, input MarketplaceInput) (*CreateResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	GarmentEquivalents(ctx context.Context, id uuid.UUID) (int, error)
}

type service struct {
	repo     ordersRepository
	pricer   linePricer
	invoices invoiceIssuer
	events   eventEmitter
	variants variantReader
	tx       txRunner
}

// LineItemInput is one requested order line before pricing.
type LineItemInput struct {
	ProductID     uuid.UUID
	FabricTypeID  uuid.UUID
	VariantTypeID *uuid.UUID
	Quantity      int
}

// ExtraCostInput is one order-level adjustment.
type ExtraCostInput struct {
	CostType enums.ExtraCostType
	Amount   decimal.Decimal
	Note     *string
}

// KonveksiInput is the konveksi-channel create variant.
type KonveksiInput struct {
	CustomerID     uuid.UUID
	ConvectionName string
	Items          []LineItemInput
	ExtraCosts     []ExtraCostInput
	DeliveryDate   *time.Time
	CreatedBy      *uuid.UUID
}

// MarketplaceInput is the marketplace-channel create variant.
type MarketplaceInput struct {
	BuyerName             string
	Marketplace           string
	MarketplaceOrderNo    string
	OrderChoice           string
	EstimatedShippingDate time.Time
	Quantity              int
	CreatedBy             *uuid.UUID
}

// CreateResult bundles the created order with its invoice (nil for
// marketplace orders, which are billed on their platform).
type CreateResult struct {
	Order   *models.Order
	Invoice *models.Invoice
}

// NewService builds the order service.
func NewService(repo ordersRepository, pricer linePricer, invoices invoiceIssuer, events eventEmitter, variants variantReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("line pricer required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice issuer required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		pricer:   pricer,
		invoices: invoices,
		events:   events,
		variants: variants,
		tx:       tx,
	}, nil
}

// CreateKonveksi prices every line, persists the order graph, issues the
// invoice, and queues the order.created event in one transaction. A pricing
// failure on any line aborts the whole order.
func (s *service) CreateKonveksi(ctx context.Context, input KonveksiInput) (*CreateResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	if strings.TrimSpace(input.ConvectionName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "convection_name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, extra := range input.ExtraCosts {
		if !extra.CostType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid extra cost type")
		}
		if extra.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra cost amount must not be negative")
		}
	}

	items := make([]models.OrderItem, len(input.Items))
	total := decimal.Zero
	for i, line := range input.Items {
		quote, err := s.pricer.Resolve(ctx, pricing.LineInput{
			ProductID:     line.ProductID,
			FabricTypeID:  line.FabricTypeID,
			VariantTypeID: line.VariantTypeID,
			Quantity:      line.Quantity,
		})
		if err != nil {
			return nil, err
		}
		items[i] = models.OrderItem{
			ProductID:     line.ProductID,
			FabricTypeID:  line.FabricTypeID,
			VariantTypeID: line.VariantTypeID,
			PriceTierID:   quote.TierID,
			Quantity:      line.Quantity,
			UnitPrice:     quote.UnitPrice,
			Subtotal:      quote.Subtotal,
		}
		total = total.Add(quote.Subtotal)
	}

	extras := make([]models.OrderExtraCost, len(input.ExtraCosts))
	for i, extra := range input.ExtraCosts {
		extras[i] = models.OrderExtraCost{
			CostType: extra.CostType,
			Amount:   extra.Amount,
			Note:     extra.Note,
		}
		if extra.CostType.IsDeduction() {
			total = total.Sub(extra.Amount)
		} else {
			total = total.Add(extra.Amount)
		}
	}

	convectionName := strings.TrimSpace(input.ConvectionName)
	order := &models.Order{
		OrderType:      enums.OrderTypeKonveksi,
		Status:         enums.OrderStatusDraft,
		CustomerID:     &input.CustomerID,
		ConvectionName: &convectionName,
		Items:          items,
		ExtraCosts:     extras,
		CreatedBy:      input.CreatedBy,
	}

	var invoice *models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, order); err != nil {
			return err
		}
		issued, err := s.invoices.IssueTx(tx, InvoiceIssueInput{
			OrderID:      order.ID,
			Total:        total,
			DeliveryDate: input.DeliveryDate,
		})
		if err != nil {
			return err
		}
		invoice = issued
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(input.CreatedBy),
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				OrderType:     enums.OrderTypeKonveksi,
				CustomerID:    &input.CustomerID,
				InvoiceNumber: issued.Number,
				Total:         total,
				ItemCount:     len(items),
			},
		})
	})
	if err != nil {
		return nil, wrapCreateErr(err)
	}
	return &CreateResult{Order: order, Invoice: invoice}, nil
}

// CreateMarketplace records an order placed on an external marketplace. No
// lines are priced; billing happens on the platform.
func (s *service) CreateMarketplace(ctx context.Context, input MarketplaceInput) (*CreateResult, error) {
	buyerName := strings.TrimSpace(input.BuyerName)
	marketplace := strings.TrimSpace(input.Marketplace)
	orderNo := strings.TrimSpace(input.MarketplaceOrderNo)
	orderChoice := strings.TrimSpace(input.OrderChoice)
	switch {
	case buyerName == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer_name is required")
	case marketplace == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marketplace is required")
	case orderNo == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marketplace_order_no is required")
	case orderChoice == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_choice is required")
	case input.EstimatedShippingDate.IsZero():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated_shipping_date is required")
	case input.Quantity <= 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	shipping := input.EstimatedShippingDate
	quantity := input.Quantity
	order := &models.Order{
		OrderType:             enums.OrderTypeMarketplace,
		Status:                enums.OrderStatusDraft,
		BuyerName:             &buyerName,
		Marketplace:           &marketplace,
		MarketplaceOrderNo:    &orderNo,
		OrderChoice:           &orderChoice,
		EstimatedShippingDate: &shipping,
		Quantity:              &quantity,
		CreatedBy:             input.CreatedBy,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, order); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(input.CreatedBy),
			Data: payloads.OrderCreatedEvent{
				OrderID:   order.ID,
				OrderType: enums.OrderTypeMarketplace,
				Total:     decimal.Zero,
			},
		})
	})
	if err != nil {
		return nil, wrapCreateErr(err)
	}
	return &CreateResult{Order: order}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

var orderStatusRank = map[enums.OrderStatus]int{
	enums.OrderStatusDraft:        0,
	enums.OrderStatusDeposit:      1,
	enums.OrderStatusInProduction: 2,
	enums.OrderStatusCompleted:    3,
}

// AdvanceStatus moves an order forward through its lifecycle; backward moves
// are rejected.
func (s *service) AdvanceStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if orderStatusRank[next] <= orderStatusRank[order.Status] {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = next
	return order, nil
}

// GarmentEquivalents sums each line's quantity weighted by its variant's
// unit (stel counts double). Reporting aggregate only.
func (s *service) GarmentEquivalents(ctx context.Context, id uuid.UUID) (int, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if order.OrderType == enums.OrderTypeMarketplace {
		if order.Quantity != nil {
			return *order.Quantity, nil
		}
		return 0, nil
	}

	total := 0
	for _, item := range order.Items {
		unit := ""
		if item.VariantType != nil {
			unit = item.VariantType.Unit
		} else if item.VariantTypeID != nil {
			variant, err := s.variants.FindVariantTypeByID(ctx, *item.VariantTypeID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup variant type")
			}
			if variant != nil {
				unit = variant.Unit
			}
		}
		total += pricing.WeightedQuantity(unit, item.Quantity)
	}
	return total, nil
}

func actorRef(userID *uuid.UUID) *outbox.ActorRef {
	if userID == nil {
		return nil
	}
	return &outbox.ActorRef{UserID: *userID}
}

func wrapCreateErr(err error) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
}
