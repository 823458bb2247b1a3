package invoices

import (
	"fmt"
	"time"
)

// FormatNumber builds an invoice number like SI.2026.08.00001 from the
// configured prefix, the issue month, and a 1-based monthly sequence.
func FormatNumber(prefix string, issued time.Time, sequence int64) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("invoice prefix required")
	}
	if sequence < 1 {
		return "", fmt.Errorf("sequence must be positive")
	}
	if sequence > 99999 {
		return "", fmt.Errorf("monthly invoice sequence exhausted")
	}
	return fmt.Sprintf("%s.%04d.%02d.%05d", prefix, issued.Year(), int(issued.Month()), sequence), nil
}
