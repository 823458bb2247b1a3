package pricing

import "testing"

func TestUnitWeight(t *testing.T) {
	cases := []struct {
		unit   string
		weight int
	}{
		{"atasan", 1},
		{"stel", 2},
		{"Stel", 2},
		{"  STEL  ", 2},
		{"celana", 1},
		{"", 1},
	}
	for _, tc := range cases {
		if got := UnitWeight(tc.unit); got != tc.weight {
			t.Fatalf("UnitWeight(%q) = %d, want %d", tc.unit, got, tc.weight)
		}
	}
}

func TestWeightedQuantity(t *testing.T) {
	if got := WeightedQuantity("stel", 12); got != 24 {
		t.Fatalf("expected 24 garment equivalents, got %d", got)
	}
	if got := WeightedQuantity("atasan", 12); got != 12 {
		t.Fatalf("expected 12 garment equivalents, got %d", got)
	}
	if got := WeightedQuantity("unknown", 7); got != 7 {
		t.Fatalf("unknown unit should weight 1, got %d", got)
	}
}
