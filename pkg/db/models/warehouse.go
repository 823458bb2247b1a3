package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// Material is a raw-material master record. It carries no stock counter; the
// current stock level is always a fold over StockMovement rows.
type Material struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string                 `gorm:"column:code;type:text;not null;uniqueIndex"`
	Name      string                 `gorm:"type:text;not null"`
	Category  enums.MaterialCategory `gorm:"column:category;type:material_category_enum;not null"`
	Unit      enums.MaterialUnit     `gorm:"column:unit;type:material_unit_enum;not null"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// StockMovement is the append-only stock ledger. Quantity is signed: receipts
// are positive, issues negative, opname adjustments either.
type StockMovement struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MaterialID    uuid.UUID          `gorm:"column:material_id;type:uuid;not null;index:ix_stock_movements_material"`
	MovementType  enums.MovementType `gorm:"column:movement_type;type:movement_type_enum;not null"`
	Quantity      int                `gorm:"column:quantity;not null"`
	ReferenceType string             `gorm:"column:reference_type;type:text;not null"`
	ReferenceID   uuid.UUID          `gorm:"column:reference_id;type:uuid;not null"`
	OccurredAt    time.Time          `gorm:"column:occurred_at;not null;index:ix_stock_movements_material"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// Supplier is a purchasing counterparty.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseOrder orders materials from a supplier.
type PurchaseOrder struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number     string              `gorm:"column:number;type:text;not null;uniqueIndex"`
	SupplierID uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	Supplier   *Supplier           `gorm:"foreignKey:SupplierID"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
	OrderedAt  time.Time           `gorm:"column:ordered_at;not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseOrderItem is one material line of a purchase order.
type PurchaseOrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID uuid.UUID `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	MaterialID      uuid.UUID `gorm:"column:material_id;type:uuid;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
}

// Receiving records material intake against a purchase order. Its stock effect
// lives in the movement appended in the same transaction.
type Receiving struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID *uuid.UUID `gorm:"column:purchase_order_id;type:uuid"`
	MaterialID      uuid.UUID  `gorm:"column:material_id;type:uuid;not null;index"`
	Quantity        int        `gorm:"column:quantity;not null"`
	ReceivedAt      time.Time  `gorm:"column:received_at;not null"`
	Note            *string    `gorm:"column:note"`
	CreatedBy       *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// Issuing records material handed out to production.
type Issuing struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MaterialID uuid.UUID  `gorm:"column:material_id;type:uuid;not null;index"`
	ForecastID *uuid.UUID `gorm:"column:forecast_id;type:uuid"`
	Quantity   int        `gorm:"column:quantity;not null"`
	IssuedAt   time.Time  `gorm:"column:issued_at;not null"`
	Note       *string    `gorm:"column:note"`
	CreatedBy  *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// StockOpname reconciles a physical count; Adjustment = physical − computed.
type StockOpname struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MaterialID    uuid.UUID  `gorm:"column:material_id;type:uuid;not null;index"`
	PhysicalCount int        `gorm:"column:physical_count;not null"`
	ComputedCount int        `gorm:"column:computed_count;not null"`
	Adjustment    int        `gorm:"column:adjustment;not null"`
	CountedAt     time.Time  `gorm:"column:counted_at;not null"`
	Note          *string    `gorm:"column:note"`
	CreatedBy     *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
