package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit is a down payment attached to an order.
type Deposit struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	InvoiceID      *uuid.UUID      `gorm:"column:invoice_id;type:uuid"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	ExpiresAt      *time.Time      `gorm:"column:expires_at"`
	ReminderSentAt *time.Time      `gorm:"column:reminder_sent_at"`
	PaidOff        bool            `gorm:"column:paid_off;not null;default:false"`
	Items          []DepositItem   `gorm:"foreignKey:DepositID"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// DepositItem is a priced deposit line; it goes through the same pricing
// resolver as order items.
type DepositItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DepositID     uuid.UUID       `gorm:"column:deposit_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	FabricTypeID  uuid.UUID       `gorm:"column:fabric_type_id;type:uuid;not null"`
	VariantTypeID *uuid.UUID      `gorm:"column:variant_type_id;type:uuid"`
	PriceTierID   uuid.UUID       `gorm:"column:price_tier_id;type:uuid;not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
