package enums

import "fmt"

// MaterialCategory groups raw materials in the warehouse master.
type MaterialCategory string

const (
	MaterialCategoryKain    MaterialCategory = "kain"
	MaterialCategoryKertas  MaterialCategory = "kertas"
	MaterialCategoryTinta   MaterialCategory = "tinta"
	MaterialCategoryPlastik MaterialCategory = "plastik"
)

var validMaterialCategories = []MaterialCategory{
	MaterialCategoryKain,
	MaterialCategoryKertas,
	MaterialCategoryTinta,
	MaterialCategoryPlastik,
}

// String implements fmt.Stringer.
func (c MaterialCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known MaterialCategory.
func (c MaterialCategory) IsValid() bool {
	for _, candidate := range validMaterialCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMaterialCategory converts raw input into a MaterialCategory.
func ParseMaterialCategory(value string) (MaterialCategory, error) {
	for _, candidate := range validMaterialCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material category %q", value)
}

// MaterialUnit is the stock-keeping unit for a material.
type MaterialUnit string

const (
	MaterialUnitPcs  MaterialUnit = "pcs"
	MaterialUnitKoli MaterialUnit = "koli"
	MaterialUnitRoll MaterialUnit = "roll"
	MaterialUnitDus  MaterialUnit = "dus"
)

var validMaterialUnits = []MaterialUnit{
	MaterialUnitPcs,
	MaterialUnitKoli,
	MaterialUnitRoll,
	MaterialUnitDus,
}

// String implements fmt.Stringer.
func (u MaterialUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known MaterialUnit.
func (u MaterialUnit) IsValid() bool {
	for _, candidate := range validMaterialUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseMaterialUnit converts raw input into a MaterialUnit.
func ParseMaterialUnit(value string) (MaterialUnit, error) {
	for _, candidate := range validMaterialUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material unit %q", value)
}

// MovementType classifies entries in the stock movement ledger.
type MovementType string

const (
	MovementReceived MovementType = "received"
	MovementIssued   MovementType = "issued"
	MovementAdjusted MovementType = "adjusted"
)

var validMovementTypes = []MovementType{
	MovementReceived,
	MovementIssued,
	MovementAdjusted,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
