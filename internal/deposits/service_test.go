package deposits

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
)

type fakeDepositRepo struct {
	created   []*models.Deposit
	byID      map[uuid.UUID]*models.Deposit
	linked    map[uuid.UUID]uuid.UUID
	reminders []models.Deposit
}

func newFakeDepositRepo() *fakeDepositRepo {
	return &fakeDepositRepo{
		byID:   make(map[uuid.UUID]*models.Deposit),
		linked: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeDepositRepo) CreateTx(_ *gorm.DB, deposit *models.Deposit) error {
	deposit.ID = uuid.New()
	f.created = append(f.created, deposit)
	f.byID[deposit.ID] = deposit
	return nil
}

func (f *fakeDepositRepo) SetInvoiceTx(_ *gorm.DB, depositID, invoiceID uuid.UUID) error {
	f.linked[depositID] = invoiceID
	return nil
}

func (f *fakeDepositRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Deposit, error) {
	if deposit, ok := f.byID[id]; ok {
		return deposit, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepositRepo) FindByOrderID(context.Context, uuid.UUID) ([]models.Deposit, error) {
	return nil, nil
}

func (f *fakeDepositRepo) Update(_ context.Context, deposit *models.Deposit) error {
	f.byID[deposit.ID] = deposit
	return nil
}

func (f *fakeDepositRepo) ListPendingReminders(context.Context, time.Time) ([]models.Deposit, error) {
	return f.reminders, nil
}

type fakeOrderReader struct {
	byID     map[uuid.UUID]*models.Order
	advanced map[uuid.UUID]enums.OrderStatus
}

func (f *fakeOrderReader) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := f.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderReader) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status enums.OrderStatus) error {
	f.advanced[id] = status
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
		ID:               uuid.New(),
		Number:           "SI.2026.08.00003",
		OrderID:          input.OrderID,
		Status:           enums.InvoiceStatusPartial,
		Total:            input.Total,
		IsDepositInvoice: input.IsDepositInvoice,
	}, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type depositTestDeps struct {
	repo   *fakeDepositRepo
	orders *fakeOrderReader
	pricer *fakePricer
	issuer *fakeIssuer
}

func newTestDepositService(t *testing.T) (Service, *depositTestDeps) {
	t.Helper()
	deps := &depositTestDeps{
		repo: newFakeDepositRepo(),
		orders: &fakeOrderReader{
			byID:     make(map[uuid.UUID]*models.Order),
			advanced: make(map[uuid.UUID]enums.OrderStatus),
		},
		pricer: &fakePricer{quotes: make(map[uuid.UUID]pricing.Quote)},
		issuer: &fakeIssuer{},
	}
	svc, err := NewService(deps.repo, deps.pricer, deps.orders, deps.issuer, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time {
		return time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, deps
}

func money(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func TestCreateDepositIssuesPartialInvoice(t *testing.T) {
	svc, deps := newTestDepositService(t)

	orderID := uuid.New()
	deps.orders.byID[orderID] = &models.Order{
		ID:        orderID,
		OrderType: enums.OrderTypeKonveksi,
		Status:    enums.OrderStatusDraft,
	}
	productID := uuid.New()
	tierID := uuid.New()
	deps.pricer.quotes[productID] = pricing.Quote{TierID: tierID, UnitPrice: money(50000), Subtotal: money(500000)}

	deposit, err := svc.Create(context.Background(), CreateInput{
		OrderID: orderID,
		Amount:  money(250000),
		Items: []ItemInput{
			{ProductID: productID, FabricTypeID: uuid.New(), Quantity: 10},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(deps.issuer.issued) != 1 {
		t.Fatalf("expected one invoice, got %d", len(deps.issuer.issued))
	}
	issued := deps.issuer.issued[0]
	if !issued.IsDepositInvoice || !issued.Total.Equal(money(250000)) {
		t.Fatalf("unexpected invoice input %+v", issued)
	}
	if deposit.InvoiceID == nil {
		t.Fatal("deposit not linked to invoice")
	}
	if _, ok := deps.repo.linked[deposit.ID]; !ok {
		t.Fatal("invoice link not persisted")
	}
	if len(deposit.Items) != 1 || deposit.Items[0].PriceTierID != tierID {
		t.Fatalf("deposit items not priced: %+v", deposit.Items)
	}
	if deps.orders.advanced[orderID] != enums.OrderStatusDeposit {
		t.Fatal("draft order not advanced to deposit status")
	}
}

func TestCreateDepositLeavesNonDraftStatus(t *testing.T) {
	svc, deps := newTestDepositService(t)

	orderID := uuid.New()
	deps.orders.byID[orderID] = &models.Order{
		ID:        orderID,
		OrderType: enums.OrderTypeKonveksi,
		Status:    enums.OrderStatusInProduction,
	}

	_, err := svc.Create(context.Background(), CreateInput{OrderID: orderID, Amount: money(100000)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := deps.orders.advanced[orderID]; ok {
		t.Fatal("status must not change for orders past draft")
	}
}

func TestCreateDepositValidation(t *testing.T) {
	svc, deps := newTestDepositService(t)

	konveksiID := uuid.New()
	deps.orders.byID[konveksiID] = &models.Order{
		ID:        konveksiID,
		OrderType: enums.OrderTypeKonveksi,
		Status:    enums.OrderStatusDraft,
	}
	marketplaceID := uuid.New()
	deps.orders.byID[marketplaceID] = &models.Order{
		ID:        marketplaceID,
		OrderType: enums.OrderTypeMarketplace,
		Status:    enums.OrderStatusDraft,
	}
	completedID := uuid.New()
	deps.orders.byID[completedID] = &models.Order{
		ID:        completedID,
		OrderType: enums.OrderTypeKonveksi,
		Status:    enums.OrderStatusCompleted,
	}
	past := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input CreateInput
		code  pkgerrors.Code
	}{
		{"missing order", CreateInput{Amount: money(1000)}, pkgerrors.CodeValidation},
		{"zero amount", CreateInput{OrderID: konveksiID, Amount: decimal.Zero}, pkgerrors.CodeValidation},
		{"negative amount", CreateInput{OrderID: konveksiID, Amount: money(-500)}, pkgerrors.CodeValidation},
		{"expired expiry", CreateInput{OrderID: konveksiID, Amount: money(1000), ExpiresAt: &past}, pkgerrors.CodeValidation},
		{"unknown order", CreateInput{OrderID: uuid.New(), Amount: money(1000)}, pkgerrors.CodeNotFound},
		{"marketplace order", CreateInput{OrderID: marketplaceID, Amount: money(1000)}, pkgerrors.CodeValidation},
		{"completed order", CreateInput{OrderID: completedID, Amount: money(1000)}, pkgerrors.CodeStateConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestCreateDepositPricingFailureAborts(t *testing.T) {
	svc, deps := newTestDepositService(t)

	orderID := uuid.New()
	deps.orders.byID[orderID] = &models.Order{
		ID:        orderID,
		OrderType: enums.OrderTypeKonveksi,
		Status:    enums.OrderStatusDraft,
	}
	deps.pricer.err = pkgerrors.New(pkgerrors.CodeConflict, "overlapping price tiers")

	_, err := svc.Create(context.Background(), CreateInput{
		OrderID: orderID,
		Amount:  money(100000),
		Items:   []ItemInput{{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 5}},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict from pricer, got %v", err)
	}
	if len(deps.repo.created) != 0 || len(deps.issuer.issued) != 0 {
		t.Fatal("expected no deposit or invoice after pricing failure")
	}
}

func TestMarkPaidOff(t *testing.T) {
	svc, deps := newTestDepositService(t)

	deposit := &models.Deposit{Amount: money(100000)}
	if err := deps.repo.CreateTx(&gorm.DB{}, deposit); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	updated, err := svc.MarkPaidOff(context.Background(), deposit.ID)
	if err != nil {
		t.Fatalf("MarkPaidOff: %v", err)
	}
	if !updated.PaidOff {
		t.Fatal("expected paid_off flag set")
	}

	_, err = svc.MarkPaidOff(context.Background(), deposit.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on double pay-off, got %v", err)
	}
}

func TestMarkReminderSentStampsTime(t *testing.T) {
	svc, deps := newTestDepositService(t)

	deposit := &models.Deposit{Amount: money(100000)}
	if err := deps.repo.CreateTx(&gorm.DB{}, deposit); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	updated, err := svc.MarkReminderSent(context.Background(), deposit.ID)
	if err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
	if updated.ReminderSentAt == nil || !updated.ReminderSentAt.Equal(time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected reminder timestamp %v", updated.ReminderSentAt)
	}
}
