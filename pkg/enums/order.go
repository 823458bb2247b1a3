package enums

import "fmt"

// OrderType discriminates the two intake channels for orders.
type OrderType string

const (
	OrderTypeKonveksi    OrderType = "konveksi"
	OrderTypeMarketplace OrderType = "marketplace"
)

var validOrderTypes = []OrderType{
	OrderTypeKonveksi,
	OrderTypeMarketplace,
}

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OrderType.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusDraft        OrderStatus = "draft"
	OrderStatusDeposit      OrderStatus = "deposit"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusCompleted    OrderStatus = "completed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusDeposit,
	OrderStatusInProduction,
	OrderStatusCompleted,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// ExtraCostType classifies order-level cost adjustments.
type ExtraCostType string

const (
	ExtraCostShipping ExtraCostType = "ongkir"
	ExtraCostCharge   ExtraCostType = "charge"
	ExtraCostDiscount ExtraCostType = "discount"
	ExtraCostPromo    ExtraCostType = "promo"
)

var validExtraCostTypes = []ExtraCostType{
	ExtraCostShipping,
	ExtraCostCharge,
	ExtraCostDiscount,
	ExtraCostPromo,
}

// String implements fmt.Stringer.
func (t ExtraCostType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ExtraCostType.
func (t ExtraCostType) IsValid() bool {
	for _, candidate := range validExtraCostTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsDeduction reports whether the cost reduces the order total.
func (t ExtraCostType) IsDeduction() bool {
	return t == ExtraCostDiscount || t == ExtraCostPromo
}

// ParseExtraCostType converts raw input into an ExtraCostType.
func ParseExtraCostType(value string) (ExtraCostType, error) {
	for _, candidate := range validExtraCostTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid extra cost type %q", value)
}
