package forecasts

import "strings"

// normalization priority: group labels win over size tokens.
var priorityGroups = []string{"KIDS", "GIRL"}

// NormalizeSize collapses a raw size label to its reporting bucket:
// "L MEN" → "L", "S WOMEN" → "S", "L KIDS" → "KIDS", "XS GIRL" → "GIRL".
// Empty input normalizes to the empty string and is skipped by callers.
func NormalizeSize(raw string) string {
	tokens := strings.Fields(strings.ToUpper(raw))
	if len(tokens) == 0 {
		return ""
	}
	for _, group := range priorityGroups {
		for _, token := range tokens {
			if token == group {
				return group
			}
		}
	}
	return tokens[0]
}

// SizeRow is one raw size line before normalization.
type SizeRow struct {
	Size     string
	Quantity int
}

// SizeCount is one normalized bucket of the size breakdown.
type SizeCount struct {
	Size  string `json:"type"`
	Count int    `json:"count"`
}

// SizeBreakdown groups rows by normalized size, preserving first-seen order.
// Rows with a blank size are dropped.
func SizeBreakdown(rows []SizeRow) []SizeCount {
	var order []string
	counts := make(map[string]int)
	for _, row := range rows {
		size := NormalizeSize(row.Size)
		if size == "" {
			continue
		}
		if _, seen := counts[size]; !seen {
			order = append(order, size)
		}
		counts[size] += row.Quantity
	}
	breakdown := make([]SizeCount, len(order))
	for i, size := range order {
		breakdown[i] = SizeCount{Size: size, Count: counts[size]}
	}
	return breakdown
}
