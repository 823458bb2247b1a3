package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/pkg/enums"
)

// ComplaintTicket tracks a post-delivery complaint through its status machine.
type ComplaintTicket struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string             `gorm:"column:code;type:text;not null;uniqueIndex"`
	OrderID     uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	TicketType  enums.TicketType   `gorm:"column:ticket_type;type:ticket_type_enum;not null"`
	Remedy      enums.TicketRemedy `gorm:"column:remedy;type:ticket_remedy_enum;not null"`
	Status      enums.TicketStatus `gorm:"column:status;type:ticket_status_enum;not null;default:WAITING_QC"`
	Description *string            `gorm:"column:description"`
	Actions     []ComplaintAction  `gorm:"foreignKey:TicketID"`
	CreatedBy   *uuid.UUID         `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ComplaintAction is one entry of a ticket's status audit log.
type ComplaintAction struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID   uuid.UUID          `gorm:"column:ticket_id;type:uuid;not null;index"`
	FromStatus enums.TicketStatus `gorm:"column:from_status;type:ticket_status_enum;not null"`
	ToStatus   enums.TicketStatus `gorm:"column:to_status;type:ticket_status_enum;not null"`
	Note       *string            `gorm:"column:note"`
	ActorID    *uuid.UUID         `gorm:"column:actor_id;type:uuid"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
}
