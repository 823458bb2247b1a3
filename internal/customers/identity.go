package customers

import (
	"fmt"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

const identityBlockSize = 9999

// NextIdentityCode formats the identity code for the (count+1)-th customer of
// a source. Sequences run 0001..9999; full blocks roll into a letter suffix
// (CUSTKA-0001, CUSTKB-0001, ...).
func NextIdentityCode(source enums.CustomerSource, existing int64) (string, error) {
	if existing < 0 {
		return "", fmt.Errorf("existing count must not be negative")
	}
	seq := existing + 1
	block := (seq - 1) / identityBlockSize
	number := (seq-1)%identityBlockSize + 1

	suffix := ""
	if block > 0 {
		if block > 26 {
			return "", fmt.Errorf("identity code space exhausted for source %s", source)
		}
		suffix = string(rune('A' + block - 1))
	}
	return fmt.Sprintf("%s%s-%04d", source.IdentityPrefix(), suffix, number), nil
}
