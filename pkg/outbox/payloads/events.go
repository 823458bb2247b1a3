package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// OrderCreatedEvent is emitted once when an order and its invoice are persisted.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID       `json:"order_id"`
	OrderType     enums.OrderType `json:"order_type"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
}

// ForecastCreatedEvent signals that a production run entered the pipeline.
type ForecastCreatedEvent struct {
	ForecastID  uuid.UUID            `json:"forecast_id"`
	Origin      enums.ForecastOrigin `json:"origin"`
	Quantity    int                  `json:"quantity"`
	StockItemID *uuid.UUID           `json:"stock_item_id,omitempty"`
	OrderItemID *uuid.UUID           `json:"order_item_id,omitempty"`
	OrderID     *uuid.UUID           `json:"order_id,omitempty"`
}

// TicketStatusChangedEvent records every complaint ticket transition.
type TicketStatusChangedEvent struct {
	TicketID   uuid.UUID          `json:"ticket_id"`
	Code       string             `json:"code"`
	OrderID    uuid.UUID          `json:"order_id"`
	FromStatus enums.TicketStatus `json:"from_status"`
	ToStatus   enums.TicketStatus `json:"to_status"`
	Note       string             `json:"note,omitempty"`
}
