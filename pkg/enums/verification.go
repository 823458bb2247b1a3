package enums

import "fmt"

// DefectArea localizes where a QC inspector found a defect.
type DefectArea string

const (
	DefectAreaPrinting  DefectArea = "printing"
	DefectAreaStitching DefectArea = "stitching"
	DefectAreaFabric    DefectArea = "fabric"
	DefectAreaCutting   DefectArea = "cutting"
)

var validDefectAreas = []DefectArea{
	DefectAreaPrinting,
	DefectAreaStitching,
	DefectAreaFabric,
	DefectAreaCutting,
}

// String implements fmt.Stringer.
func (a DefectArea) String() string {
	return string(a)
}

// IsValid reports whether the value is a known DefectArea.
func (a DefectArea) IsValid() bool {
	for _, candidate := range validDefectAreas {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseDefectArea converts raw input into a DefectArea.
func ParseDefectArea(value string) (DefectArea, error) {
	for _, candidate := range validDefectAreas {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid defect area %q", value)
}

// RealizationStatus records whether finishing received the full quantity.
type RealizationStatus string

const (
	RealizationStatusOK     RealizationStatus = "ok"
	RealizationStatusKurang RealizationStatus = "kurang"
)

var validRealizationStatuses = []RealizationStatus{
	RealizationStatusOK,
	RealizationStatusKurang,
}

// String implements fmt.Stringer.
func (s RealizationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RealizationStatus.
func (s RealizationStatus) IsValid() bool {
	for _, candidate := range validRealizationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRealizationStatus converts raw input into a RealizationStatus.
func ParseRealizationStatus(value string) (RealizationStatus, error) {
	for _, candidate := range validRealizationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid realization status %q", value)
}
