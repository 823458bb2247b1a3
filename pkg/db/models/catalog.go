package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Printer is the print vendor a product is routed to.
type Printer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Product is a sellable garment design.
type Product struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"type:text;not null"`
	SKU       string     `gorm:"column:sku;type:text;not null;uniqueIndex"`
	PrinterID *uuid.UUID `gorm:"column:printer_id;type:uuid"`
	Printer   *Printer   `gorm:"foreignKey:PrinterID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// VariantType is a garment cut variant; Unit names the quantity unit used by
// order lines of this variant (e.g. "stel", "atasan").
type VariantType struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string    `gorm:"column:code;type:char(1);not null;uniqueIndex"`
	Name      string    `gorm:"type:text;not null"`
	Unit      string    `gorm:"column:unit;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FabricType is a fabric master record. AdditionalPrice is retained master
// data; line pricing reads surcharges from FabricPrice instead.
type FabricType struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"type:text;not null;uniqueIndex"`
	AdditionalPrice decimal.Decimal `gorm:"column:additional_price;type:numeric(12,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// FabricPrice maps (fabric, variant) to a per-unit surcharge. A null variant
// row prices the fabric for variantless lines only.
type FabricPrice struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FabricTypeID  uuid.UUID       `gorm:"column:fabric_type_id;type:uuid;not null;uniqueIndex:ux_fabric_prices_pair"`
	VariantTypeID *uuid.UUID      `gorm:"column:variant_type_id;type:uuid;uniqueIndex:ux_fabric_prices_pair"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PriceTier holds the quantity-tiered base price for a product/variant pair.
// MaxQty is nil for open-ended top tiers.
type PriceTier struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_price_tiers_range"`
	VariantTypeID *uuid.UUID      `gorm:"column:variant_type_id;type:uuid;uniqueIndex:ux_price_tiers_range"`
	MinQty        int             `gorm:"column:min_qty;not null;uniqueIndex:ux_price_tiers_range"`
	MaxQty        *int            `gorm:"column:max_qty;uniqueIndex:ux_price_tiers_range"`
	BasePrice     decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Covers reports whether qty falls inside the tier's range.
func (t PriceTier) Covers(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	if t.MaxQty != nil && qty > *t.MaxQty {
		return false
	}
	return true
}
