package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// Customer holds a buyer with a generated identity code (CUSTK-0001 style).
type Customer struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	IdentityCode string               `gorm:"column:identity_code;type:text;not null;uniqueIndex"`
	Name         string               `gorm:"type:text;not null"`
	Phone        *string              `gorm:"column:phone"`
	Address      *string              `gorm:"column:address"`
	Source       enums.CustomerSource `gorm:"column:source;type:customer_source_enum;not null"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
