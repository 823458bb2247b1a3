package deposits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/pricing"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type depositsRepository interface {
	CreateTx(tx *gorm.DB, deposit *models.Deposit) error
	SetInvoiceTx(tx *gorm.DB, depositID, invoiceID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Deposit, error)
	Update(ctx context.Context, deposit *models.Deposit) error
	ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Deposit, error)
}

type linePricer interface {
	Resolve(ctx context.Context, in pricing.LineInput) (*pricing.Quote, error)
}

type ordersReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status enums.OrderStatus) error
}

// InvoiceIssueInput mirrors the invoice service's issuance input so deposits
// do not depend on the invoices package directly.
type InvoiceIssueInput struct {
	OrderID          uuid.UUID
	Total            decimal.Decimal
	IsDepositInvoice bool
	DeliveryDate     *time.Time
}

type invoiceIssuer interface {
	IssueTx(tx *gorm.DB, input InvoiceIssueInput) (*models.Invoice, error)
}

// Service records down payments against konveksi orders.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Deposit, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Deposit, error)
	MarkPaidOff(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Deposit, error)
}

type service struct {
	repo     depositsRepository
	pricer   linePricer
	orders   ordersReader
	invoices invoiceIssuer
	tx       txRunner
	now      func() time.Time
}

// ItemInput is one deposit line before pricing.
type ItemInput struct {
	ProductID     uuid.UUID
	FabricTypeID  uuid.UUID
	VariantTypeID *uuid.UUID
	Quantity      int
}

// CreateInput holds the fields for a new deposit.
type CreateInput struct {
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	ExpiresAt *time.Time
	Items     []ItemInput
}

// NewService builds the deposit service.
func NewService(repo depositsRepository, pricer linePricer, orders ordersReader, invoices invoiceIssuer, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deposit repository required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("line pricer required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice issuer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		pricer:   pricer,
		orders:   orders,
		invoices: invoices,
		tx:       tx,
		now:      time.Now,
	}, nil
}

// Create prices each deposit line, stores the deposit, issues the deposit
// invoice (status partial), and moves a draft order into deposit status, all
// in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Deposit, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at must be in the future")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	if order.OrderType != enums.OrderTypeKonveksi {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deposits apply to konveksi orders only")
	}
	if order.Status == enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already completed")
	}

	items := make([]models.DepositItem, len(input.Items))
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
		items[i] = models.DepositItem{
			ProductID:     line.ProductID,
			FabricTypeID:  line.FabricTypeID,
			VariantTypeID: line.VariantTypeID,
			PriceTierID:   quote.TierID,
			Quantity:      line.Quantity,
			UnitPrice:     quote.UnitPrice,
			Subtotal:      quote.Subtotal,
		}
	}

	deposit := &models.Deposit{
		OrderID:   input.OrderID,
		Amount:    input.Amount,
		ExpiresAt: input.ExpiresAt,
		Items:     items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, deposit); err != nil {
			return err
		}
		invoice, err := s.invoices.IssueTx(tx, InvoiceIssueInput{
			OrderID:          input.OrderID,
			Total:            input.Amount,
			IsDepositInvoice: true,
		})
		if err != nil {
			return err
		}
		deposit.InvoiceID = &invoice.ID
		if err := s.repo.SetInvoiceTx(tx, deposit.ID, invoice.ID); err != nil {
			return err
		}
		if order.Status == enums.OrderStatusDraft {
			return s.orders.UpdateStatusTx(tx, order.ID, enums.OrderStatusDeposit)
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create deposit")
	}
	return deposit, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deposit id is required")
	}
	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deposit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup deposit")
	}
	return deposit, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Deposit, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	rows, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order deposits")
	}
	return rows, nil
}

func (s *service) MarkPaidOff(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	deposit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposit.PaidOff {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deposit already paid off")
	}
	deposit.PaidOff = true
	if err := s.repo.Update(ctx, deposit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update deposit")
	}
	return deposit, nil
}

func (s *service) MarkReminderSent(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	deposit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sent := s.now()
	deposit.ReminderSentAt = &sent
	if err := s.repo.Update(ctx, deposit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update deposit")
	}
	return deposit, nil
}

func (s *service) ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Deposit, error) {
	rows, err := s.repo.ListPendingReminders(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending reminders")
	}
	return rows, nil
}
