package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// Invoice is a billing document for an order. Numbers follow SI.YYYY.MM.NNNNN.
type Invoice struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number           string              `gorm:"column:number;type:text;not null;uniqueIndex"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Status           enums.InvoiceStatus `gorm:"column:status;type:invoice_status_enum;not null;default:unpaid"`
	Total            decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	IsDepositInvoice bool                `gorm:"column:is_deposit_invoice;not null;default:false"`
	IssuedDate       time.Time           `gorm:"column:issued_date;not null"`
	DeliveryDate     *time.Time          `gorm:"column:delivery_date"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
