package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// PrintVerification is the first production checkpoint. One row per forecast.
type PrintVerification struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID  uuid.UUID  `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	Approved    bool       `gorm:"column:approved;not null;default:false"`
	RejectedQty int        `gorm:"column:rejected_qty;not null;default:0"`
	Note        *string    `gorm:"column:note"`
	FinishedAt  *time.Time `gorm:"column:finished_at"`
	CreatedBy   *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// QCLineVerification is the sewing-line QC checkpoint. One row per forecast.
type QCLineVerification struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID  uuid.UUID         `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	DefectArea  *enums.DefectArea `gorm:"column:defect_area;type:defect_area_enum"`
	DefectNote  *string           `gorm:"column:defect_note"`
	RejectedQty int               `gorm:"column:rejected_qty;not null;default:0"`
	CreatedBy   *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// QCCuttingVerification is the cutting QC checkpoint. One row per forecast.
type QCCuttingVerification struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID  uuid.UUID         `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	DefectArea  *enums.DefectArea `gorm:"column:defect_area;type:defect_area_enum"`
	DefectNote  *string           `gorm:"column:defect_note"`
	RejectedQty int               `gorm:"column:rejected_qty;not null;default:0"`
	CreatedBy   *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// QCFinishing records the finishing intake count. One row per forecast.
type QCFinishing struct {
	ID                uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID        uuid.UUID               `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	ReceivedQty       int                     `gorm:"column:received_qty;not null"`
	RealizationStatus enums.RealizationStatus `gorm:"column:realization_status;type:realization_status_enum;not null"`
	VerificationCode  string                  `gorm:"column:verification_code;type:text;not null"`
	CreatedBy         *uuid.UUID              `gorm:"column:created_by;type:uuid"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// QCFinishingDefect records defects found at finishing. One row per forecast.
type QCFinishingDefect struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID uuid.UUID  `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	DefectQty  int        `gorm:"column:defect_qty;not null"`
	Note       *string    `gorm:"column:note"`
	CreatedBy  *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// WarehouseDelivery marks goods handed to the warehouse. One row per forecast.
type WarehouseDelivery struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID  uuid.UUID  `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	Quantity    int        `gorm:"column:quantity;not null"`
	DeliveredAt time.Time  `gorm:"column:delivered_at;not null"`
	CreatedBy   *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// WarehouseReceipt is the final checkpoint; the warehouse confirms intake.
type WarehouseReceipt struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ForecastID uuid.UUID  `gorm:"column:forecast_id;type:uuid;not null;uniqueIndex"`
	Quantity   int        `gorm:"column:quantity;not null"`
	ReceivedAt time.Time  `gorm:"column:received_at;not null"`
	CreatedBy  *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
