package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// Order is the intake record for both konveksi and marketplace channels.
// Which of the nullable columns are populated depends on OrderType; services
// only accept input through the typed variants in internal/orders.
type Order struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderType enums.OrderType   `gorm:"column:order_type;type:order_type_enum;not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null;default:draft"`

	// Konveksi channel.
	CustomerID     *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	Customer       *Customer  `gorm:"foreignKey:CustomerID"`
	ConvectionName *string    `gorm:"column:convection_name"`

	// Marketplace channel.
	BuyerName             *string    `gorm:"column:buyer_name"`
	Marketplace           *string    `gorm:"column:marketplace"`
	MarketplaceOrderNo    *string    `gorm:"column:marketplace_order_no"`
	OrderChoice           *string    `gorm:"column:order_choice"`
	EstimatedShippingDate *time.Time `gorm:"column:estimated_shipping_date"`
	Quantity              *int       `gorm:"column:quantity"`

	Items      []OrderItem      `gorm:"foreignKey:OrderID"`
	ExtraCosts []OrderExtraCost `gorm:"foreignKey:OrderID"`

	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a priced order line. UnitPrice and Subtotal are frozen at
// creation and never recomputed.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Order         *Order          `gorm:"foreignKey:OrderID"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	FabricTypeID  uuid.UUID       `gorm:"column:fabric_type_id;type:uuid;not null"`
	FabricType    *FabricType     `gorm:"foreignKey:FabricTypeID"`
	VariantTypeID *uuid.UUID      `gorm:"column:variant_type_id;type:uuid"`
	VariantType   *VariantType    `gorm:"foreignKey:VariantTypeID"`
	PriceTierID   uuid.UUID       `gorm:"column:price_tier_id;type:uuid;not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderExtraCost is an order-level adjustment (shipping, surcharge, discount,
// promo).
type OrderExtraCost struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	CostType  enums.ExtraCostType `gorm:"column:cost_type;type:extra_cost_type_enum;not null"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Note      *string             `gorm:"column:note"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
