package main

import (
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/internal/deposits"
	"github.com/karyatex/konveksi-backend/internal/invoices"
	"github.com/karyatex/konveksi-backend/internal/orders"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
)

// orderInvoiceIssuer bridges the order service's mirrored issue input onto
// the invoice service.
type orderInvoiceIssuer struct {
	svc invoices.Service
}

func (a orderInvoiceIssuer) IssueTx(tx *gorm.DB, input orders.InvoiceIssueInput) (*models.Invoice, error) {
	return a.svc.IssueTx(tx, invoices.IssueInput{
		OrderID:          input.OrderID,
		Total:            input.Total,
		IsDepositInvoice: input.IsDepositInvoice,
		DeliveryDate:     input.DeliveryDate,
	})
}

type depositInvoiceIssuer struct {
	svc invoices.Service
}

func (a depositInvoiceIssuer) IssueTx(tx *gorm.DB, input deposits.InvoiceIssueInput) (*models.Invoice, error) {
	return a.svc.IssueTx(tx, invoices.IssueInput{
		OrderID:          input.OrderID,
		Total:            input.Total,
		IsDepositInvoice: input.IsDepositInvoice,
		DeliveryDate:     input.DeliveryDate,
	})
}
