package pricing

import "strings"

// unitWeights maps quantity-unit names to garment-equivalent multipliers.
// Unknown units weight 1; this feeds reporting aggregates, never prices.
var unitWeights = map[string]int{
	"atasan": 1,
	"stel":   2,
}

// UnitWeight returns the garment-equivalent multiplier for a unit name.
func UnitWeight(unit string) int {
	if w, ok := unitWeights[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return w
	}
	return 1
}

// WeightedQuantity converts a raw quantity into garment equivalents.
func WeightedQuantity(unit string, quantity int) int {
	return quantity * UnitWeight(unit)
}
