package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// StockItem is an internally initiated production batch (no customer order).
type StockItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product      *Product        `gorm:"foreignKey:ProductID"`
	FabricTypeID uuid.UUID       `gorm:"column:fabric_type_id;type:uuid;not null"`
	FabricType   *FabricType     `gorm:"foreignKey:FabricTypeID"`
	Sizes        []StockItemSize `gorm:"foreignKey:StockItemID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// StockItemSize is one size row of a stock batch.
type StockItemSize struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StockItemID uuid.UUID `gorm:"column:stock_item_id;type:uuid;not null;index"`
	Size        string    `gorm:"column:size;type:text;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
}

// Forecast is the unit of work the production pipeline tracks. Exactly one of
// StockItemID, OrderItemID or OrderID is set, matching Origin.
type Forecast struct {
	ID     uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Origin enums.ForecastOrigin `gorm:"column:origin;type:forecast_origin_enum;not null"`

	StockItemID *uuid.UUID `gorm:"column:stock_item_id;type:uuid"`
	StockItem   *StockItem `gorm:"foreignKey:StockItemID"`
	OrderItemID *uuid.UUID `gorm:"column:order_item_id;type:uuid"`
	OrderItem   *OrderItem `gorm:"foreignKey:OrderItemID"`
	OrderID     *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Order       *Order     `gorm:"foreignKey:OrderID"`

	Quantity       int        `gorm:"column:quantity;not null"`
	PONumber       *string    `gorm:"column:po_number"`
	Note           *string    `gorm:"column:note"`
	EstimateSentAt *time.Time `gorm:"column:estimate_sent_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
