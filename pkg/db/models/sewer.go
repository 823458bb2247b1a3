package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Sewer is an external sewing partner.
type Sewer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SewerDistribution hands part of a forecast to a sewer together with an
// accessories checklist and a generated tracking code.
type SewerDistribution struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID   uuid.UUID      `gorm:"column:forecast_id;type:uuid;not null;index"`
	SewerID      uuid.UUID      `gorm:"column:sewer_id;type:uuid;not null;index"`
	Sewer        *Sewer         `gorm:"foreignKey:SewerID"`
	Quantity     int            `gorm:"column:quantity;not null"`
	Accessories  pq.StringArray `gorm:"column:accessories;type:text[];not null;default:ARRAY[]::text[]"`
	TrackingCode string         `gorm:"column:tracking_code;type:char(8);not null;uniqueIndex"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
