package verification

import (
	"strings"

	"github.com/google/uuid"
)

// NewVerificationCode returns the 8-char uppercase code stamped onto a
// finishing record.
func NewVerificationCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
