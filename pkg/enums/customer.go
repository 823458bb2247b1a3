package enums

import "fmt"

// CustomerSource distinguishes where a customer was acquired; it drives the
// prefix of generated identity codes (CUSTK vs CUSTM).
type CustomerSource string

const (
	CustomerSourceKonveksi    CustomerSource = "konveksi"
	CustomerSourceMarketplace CustomerSource = "marketplace"
)

var validCustomerSources = []CustomerSource{
	CustomerSourceKonveksi,
	CustomerSourceMarketplace,
}

// String implements fmt.Stringer.
func (s CustomerSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CustomerSource.
func (s CustomerSource) IsValid() bool {
	for _, candidate := range validCustomerSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// IdentityPrefix returns the identity-code prefix for the source.
func (s CustomerSource) IdentityPrefix() string {
	if s == CustomerSourceMarketplace {
		return "CUSTM"
	}
	return "CUSTK"
}

// ParseCustomerSource converts raw input into a CustomerSource.
func ParseCustomerSource(value string) (CustomerSource, error) {
	for _, candidate := range validCustomerSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer source %q", value)
}
