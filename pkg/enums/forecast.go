package enums

import "fmt"

// ForecastOrigin names which source a production forecast was cut from.
type ForecastOrigin string

const (
	ForecastOriginStock       ForecastOrigin = "stock"
	ForecastOriginKonveksi    ForecastOrigin = "konveksi"
	ForecastOriginMarketplace ForecastOrigin = "marketplace"
)

var validForecastOrigins = []ForecastOrigin{
	ForecastOriginStock,
	ForecastOriginKonveksi,
	ForecastOriginMarketplace,
}

// String implements fmt.Stringer.
func (o ForecastOrigin) String() string {
	return string(o)
}

// IsValid reports whether the value is a known ForecastOrigin.
func (o ForecastOrigin) IsValid() bool {
	for _, candidate := range validForecastOrigins {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseForecastOrigin converts raw input into a ForecastOrigin.
func ParseForecastOrigin(value string) (ForecastOrigin, error) {
	for _, candidate := range validForecastOrigins {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid forecast origin %q", value)
}
