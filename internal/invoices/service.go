package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type invoicesRepository interface {
	CountForMonthTx(tx *gorm.DB, issued time.Time) (int64, error)
	CreateTx(tx *gorm.DB, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Invoice, error)
	List(ctx context.Context) ([]models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
}

// Service issues and settles invoices. Issuance happens inside the caller's
// transaction so an order and its invoice commit together.
type Service interface {
	IssueTx(tx *gorm.DB, input IssueInput) (*models.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Invoice, error)
	List(ctx context.Context) ([]models.Invoice, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type service struct {
	repo   invoicesRepository
	prefix string
	now    func() time.Time
}

// IssueInput holds the fields for a new invoice.
type IssueInput struct {
	OrderID          uuid.UUID
	Total            decimal.Decimal
	IsDepositInvoice bool
	DeliveryDate     *time.Time
}

// NewService builds the invoice service with the configured number prefix.
func NewService(repo invoicesRepository, prefix string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if prefix == "" {
		return nil, fmt.Errorf("invoice prefix required")
	}
	return &service{repo: repo, prefix: prefix, now: time.Now}, nil
}

func (s *service) IssueTx(tx *gorm.DB, input IssueInput) (*models.Invoice, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.Total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total must not be negative")
	}

	issued := s.now()
	existing, err := s.repo.CountForMonthTx(tx, issued)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count monthly invoices")
	}
	number, err := FormatNumber(s.prefix, issued, existing+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "format invoice number")
	}

	status := enums.InvoiceStatusUnpaid
	if input.IsDepositInvoice {
		status = enums.InvoiceStatusPartial
	}
	invoice := &models.Invoice{
		Number:           number,
		OrderID:          input.OrderID,
		Status:           status,
		Total:            input.Total,
		IsDepositInvoice: input.IsDepositInvoice,
		IssuedDate:       issued,
		DeliveryDate:     input.DeliveryDate,
	}
	if err := s.repo.CreateTx(tx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	return invoice, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup invoice")
	}
	return invoice, nil
}

func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Invoice, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	rows, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order invoices")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	return rows, nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case enums.InvoiceStatusUnpaid, enums.InvoiceStatusPartial:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invoice already finalized")
	}
	invoice.Status = enums.InvoiceStatusPaid
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice")
	}
	return invoice, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == enums.InvoiceStatusPaid || invoice.Status == enums.InvoiceStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invoice already finalized")
	}
	invoice.Status = enums.InvoiceStatusCancelled
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice")
	}
	return invoice, nil
}
