package orders

import (
	"context"
	"testing"
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

type fakeOrderRepo struct {
	created []*models.Order
	byID    map[uuid.UUID]*models.Order
	status  map[uuid.UUID]enums.OrderStatus
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		byID:   make(map[uuid.UUID]*models.Order),
		status: make(map[uuid.UUID]enums.OrderStatus),
	}
}

func (f *fakeOrderRepo) CreateTx(_ *gorm.DB, order *models.Order) error {
	order.ID = uuid.New()
	f.created = append(f.created, order)
	f.byID[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := f.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) List(context.Context, ListFilter) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	f.status[id] = status
	return nil
}

type fakePricer struct {
	quotes map[uuid.UUID]pricing.Quote
	err    error
}

func (f *fakePricer) Resolve(_ context.Context, in pricing.LineInput) (*pricing.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	quote, ok := f.quotes[in.ProductID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no applicable price tier")
	}
	return &quote, nil
}

type fakeIssuer struct {
	issued []InvoiceIssueInput
}

func (f *fakeIssuer) IssueTx(_ *gorm.DB, input InvoiceIssueInput) (*models.Invoice, error) {
	f.issued = append(f.issued, input)
	return &models.Invoice{
		ID:      uuid.New(),
		Number:  "SI.2026.08.00001",
		OrderID: input.OrderID,
		Status:  enums.InvoiceStatusUnpaid,
		Total:   input.Total,
	}, nil
}

type fakeEmitter struct {
	events []outbox.DomainEvent
}

func (f *fakeEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeVariantReader struct {
	byID map[uuid.UUID]*models.VariantType
}

func (f *fakeVariantReader) FindVariantTypeByID(_ context.Context, id uuid.UUID) (*models.VariantType, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type orderTestDeps struct {
	repo     *fakeOrderRepo
	pricer   *fakePricer
	issuer   *fakeIssuer
	emitter  *fakeEmitter
	variants *fakeVariantReader
}

func newTestOrderService(t *testing.T) (Service, *orderTestDeps) {
	t.Helper()
	deps := &orderTestDeps{
		repo:     newFakeOrderRepo(),
		pricer:   &fakePricer{quotes: make(map[uuid.UUID]pricing.Quote)},
		issuer:   &fakeIssuer{},
		emitter:  &fakeEmitter{},
		variants: &fakeVariantReader{byID: make(map[uuid.UUID]*models.VariantType)},
	}
	svc, err := NewService(deps.repo, deps.pricer, deps.issuer, deps.emitter, deps.variants, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, deps
}

func money(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func TestCreateKonveksiFreezesPricesAndIssuesInvoice(t *testing.T) {
	svc, deps := newTestOrderService(t)

	productA := uuid.New()
	productB := uuid.New()
	tierA := uuid.New()
	tierB := uuid.New()
	deps.pricer.quotes[productA] = pricing.Quote{TierID: tierA, UnitPrice: money(55000), Subtotal: money(275000)}
	deps.pricer.quotes[productB] = pricing.Quote{TierID: tierB, UnitPrice: money(50000), Subtotal: money(500000)}

	note := "loyal customer"
	result, err := svc.CreateKonveksi(context.Background(), KonveksiInput{
		CustomerID:     uuid.New(),
		ConvectionName: "Karya Abadi",
		Items: []LineItemInput{
			{ProductID: productA, FabricTypeID: uuid.New(), Quantity: 5},
			{ProductID: productB, FabricTypeID: uuid.New(), Quantity: 10},
		},
		ExtraCosts: []ExtraCostInput{
			{CostType: enums.ExtraCostShipping, Amount: money(20000)},
			{CostType: enums.ExtraCostDiscount, Amount: money(50000), Note: &note},
		},
	})
	if err != nil {
		t.Fatalf("CreateKonveksi: %v", err)
	}

	// 275000 + 500000 + 20000 shipping - 50000 discount
	wantTotal := money(745000)
	if len(deps.issuer.issued) != 1 {
		t.Fatalf("expected one invoice, got %d", len(deps.issuer.issued))
	}
	if !deps.issuer.issued[0].Total.Equal(wantTotal) {
		t.Fatalf("invoice total = %s, want %s", deps.issuer.issued[0].Total, wantTotal)
	}
	if result.Invoice == nil || result.Invoice.Number != "SI.2026.08.00001" {
		t.Fatalf("unexpected invoice %+v", result.Invoice)
	}

	order := result.Order
	if order.OrderType != enums.OrderTypeKonveksi || order.Status != enums.OrderStatusDraft {
		t.Fatalf("unexpected order type/status %s/%s", order.OrderType, order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].PriceTierID != tierA || !order.Items[0].UnitPrice.Equal(money(55000)) {
		t.Fatalf("first item not frozen to quote: %+v", order.Items[0])
	}
	if !order.Items[1].Subtotal.Equal(money(500000)) {
		t.Fatalf("second item subtotal = %s", order.Items[1].Subtotal)
	}

	if len(deps.emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(deps.emitter.events))
	}
	event := deps.emitter.events[0]
	if event.EventType != enums.EventOrderCreated || event.AggregateID != order.ID {
		t.Fatalf("unexpected event %+v", event)
	}
	payload, ok := event.Data.(payloads.OrderCreatedEvent)
	if !ok {
		t.Fatalf("unexpected event payload type %T", event.Data)
	}
	if payload.InvoiceNumber != "SI.2026.08.00001" || !payload.Total.Equal(wantTotal) || payload.ItemCount != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCreateKonveksiPricingFailureAbortsOrder(t *testing.T) {
	svc, deps := newTestOrderService(t)
	deps.pricer.err = pkgerrors.New(pkgerrors.CodeConflict, "overlapping price tiers")

	_, err := svc.CreateKonveksi(context.Background(), KonveksiInput{
		CustomerID:     uuid.New(),
		ConvectionName: "Karya Abadi",
		Items: []LineItemInput{
			{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 5},
		},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict from pricer, got %v", err)
	}
	if len(deps.repo.created) != 0 || len(deps.issuer.issued) != 0 || len(deps.emitter.events) != 0 {
		t.Fatal("expected no order, invoice, or event after pricing failure")
	}
}

func TestCreateKonveksiValidation(t *testing.T) {
	svc, _ := newTestOrderService(t)

	cases := map[string]KonveksiInput{
		"missing customer": {
			ConvectionName: "Karya Abadi",
			Items:          []LineItemInput{{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 1}},
		},
		"blank convection name": {
			CustomerID: uuid.New(),
			Items:      []LineItemInput{{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 1}},
		},
		"no items": {
			CustomerID:     uuid.New(),
			ConvectionName: "Karya Abadi",
		},
		"negative extra cost": {
			CustomerID:     uuid.New(),
			ConvectionName: "Karya Abadi",
			Items:          []LineItemInput{{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 1}},
			ExtraCosts:     []ExtraCostInput{{CostType: enums.ExtraCostCharge, Amount: money(-1)}},
		},
		"unknown extra cost type": {
			CustomerID:     uuid.New(),
			ConvectionName: "Karya Abadi",
			Items:          []LineItemInput{{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 1}},
			ExtraCosts:     []ExtraCostInput{{CostType: enums.ExtraCostType("tip"), Amount: money(1000)}},
		},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateKonveksi(context.Background(), input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateMarketplace(t *testing.T) {
	svc, deps := newTestOrderService(t)

	shipping := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	result, err := svc.CreateMarketplace(context.Background(), MarketplaceInput{
		BuyerName:             "Budi",
		Marketplace:           "shopee",
		MarketplaceOrderNo:    "SHP-991",
		OrderChoice:           "jersey setelan",
		EstimatedShippingDate: shipping,
		Quantity:              30,
	})
	if err != nil {
		t.Fatalf("CreateMarketplace: %v", err)
	}
	if result.Invoice != nil {
		t.Fatal("marketplace orders must not issue invoices")
	}
	order := result.Order
	if order.OrderType != enums.OrderTypeMarketplace || order.CustomerID != nil {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Quantity == nil || *order.Quantity != 30 {
		t.Fatalf("unexpected quantity %v", order.Quantity)
	}
	if len(deps.emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(deps.emitter.events))
	}
	payload := deps.emitter.events[0].Data.(payloads.OrderCreatedEvent)
	if payload.OrderType != enums.OrderTypeMarketplace || !payload.Total.Equal(decimal.Zero) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCreateMarketplaceValidation(t *testing.T) {
	svc, _ := newTestOrderService(t)

	valid := MarketplaceInput{
		BuyerName:             "Budi",
		Marketplace:           "shopee",
		MarketplaceOrderNo:    "SHP-991",
		OrderChoice:           "jersey setelan",
		EstimatedShippingDate: time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		Quantity:              30,
	}

	cases := map[string]func(in *MarketplaceInput){
		"blank buyer":       func(in *MarketplaceInput) { in.BuyerName = "  " },
		"blank marketplace": func(in *MarketplaceInput) { in.Marketplace = "" },
		"blank order no":    func(in *MarketplaceInput) { in.MarketplaceOrderNo = "" },
		"blank choice":      func(in *MarketplaceInput) { in.OrderChoice = "" },
		"zero shipping":     func(in *MarketplaceInput) { in.EstimatedShippingDate = time.Time{} },
		"zero quantity":     func(in *MarketplaceInput) { in.Quantity = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := valid
			mutate(&input)
			_, err := svc.CreateMarketplace(context.Background(), input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAdvanceStatusForwardOnly(t *testing.T) {
	svc, deps := newTestOrderService(t)

	order := &models.Order{Status: enums.OrderStatusDeposit}
	if err := deps.repo.CreateTx(&gorm.DB{}, order); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	updated, err := svc.AdvanceStatus(context.Background(), order.ID, enums.OrderStatusInProduction)
	if err != nil {
		t.Fatalf("AdvanceStatus: %v", err)
	}
	if updated.Status != enums.OrderStatusInProduction {
		t.Fatalf("expected in_production, got %s", updated.Status)
	}
	if deps.repo.status[order.ID] != enums.OrderStatusInProduction {
		t.Fatal("status not persisted")
	}

	_, err = svc.AdvanceStatus(context.Background(), order.ID, enums.OrderStatusDraft)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on backward move, got %v", err)
	}

	_, err = svc.AdvanceStatus(context.Background(), order.ID, enums.OrderStatusInProduction)
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on repeated status, got %v", err)
	}
}

func TestGarmentEquivalentsWeightsStel(t *testing.T) {
	svc, deps := newTestOrderService(t)

	stelID := uuid.New()
	atasanID := uuid.New()
	order := &models.Order{
		OrderType: enums.OrderTypeKonveksi,
		Items: []models.OrderItem{
			{VariantTypeID: &stelID, VariantType: &models.VariantType{Unit: "stel"}, Quantity: 12},
			{VariantTypeID: &atasanID, Quantity: 5},
			{Quantity: 3},
		},
	}
	if err := deps.repo.CreateTx(&gorm.DB{}, order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	deps.variants.byID[atasanID] = &models.VariantType{ID: atasanID, Unit: "atasan"}

	// 12 stel doubled + 5 atasan + 3 with no variant
	total, err := svc.GarmentEquivalents(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GarmentEquivalents: %v", err)
	}
	if total != 32 {
		t.Fatalf("expected 32, got %d", total)
	}
}

func TestGarmentEquivalentsMarketplaceUsesQuantity(t *testing.T) {
	svc, deps := newTestOrderService(t)

	quantity := 40
	order := &models.Order{OrderType: enums.OrderTypeMarketplace, Quantity: &quantity}
	if err := deps.repo.CreateTx(&gorm.DB{}, order); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	total, err := svc.GarmentEquivalents(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GarmentEquivalents: %v", err)
	}
	if total != 40 {
		t.Fatalf("expected 40, got %d", total)
	}
}
