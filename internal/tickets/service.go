package tickets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/outbox"
	"github.com/karyatex/konveksi-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ticketsRepository interface {
	CreateTx(tx *gorm.DB, ticket *models.ComplaintTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ComplaintTicket, error)
	FindByCode(ctx context.Context, code string) (*models.ComplaintTicket, error)
	List(ctx context.Context, filter ListFilter) ([]models.ComplaintTicket, error)
	UpdateStatusTx(tx *gorm.DB, ticketID uuid.UUID, status enums.TicketStatus, action *models.ComplaintAction) error
}

type ordersReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service runs the complaint workflow; every status change is appended to the
// action log and mirrored to the outbox.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ComplaintTicket, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ComplaintTicket, error)
	GetByCode(ctx context.Context, code string) (*models.ComplaintTicket, error)
	List(ctx context.Context, filter ListFilter) ([]models.ComplaintTicket, error)
	Transition(ctx context.Context, input TransitionInput) (*models.ComplaintTicket, error)
}

type service struct {
	repo    ticketsRepository
	orders  ordersReader
	events  eventEmitter
	tx      txRunner
	newCode func() string
}

// CreateInput opens a complaint ticket against an order.
type CreateInput struct {
	OrderID     uuid.UUID
	TicketType  enums.TicketType
	Remedy      enums.TicketRemedy
	Description *string
	CreatedBy   *uuid.UUID
}

// TransitionInput moves a ticket to its next status.
type TransitionInput struct {
	TicketID uuid.UUID
	To       enums.TicketStatus
	Note     *string
	ActorID  *uuid.UUID
}

// NewTicketCode builds the public ticket identifier, e.g. TK-1767225600123-482.
func NewTicketCode() string {
	return fmt.Sprintf("TK-%d-%d", time.Now().UnixMilli(), 100+rand.Intn(900))
}

// NewService builds the ticket service.
func NewService(repo ticketsRepository, orders ordersReader, events eventEmitter, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		orders:  orders,
		events:  events,
		tx:      tx,
		newCode: NewTicketCode,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ComplaintTicket, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if !input.TicketType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket type")
	}
	if !input.Remedy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid remedy")
	}
	if _, err := s.orders.FindByID(ctx, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}

	ticket := &models.ComplaintTicket{
		Code:        s.newCode(),
		OrderID:     input.OrderID,
		TicketType:  input.TicketType,
		Remedy:      input.Remedy,
		Status:      enums.TicketStatusWaitingQC,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, ticket)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
	}
	return ticket, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ComplaintTicket, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required")
	}
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup ticket")
	}
	return ticket, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*models.ComplaintTicket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket code is required")
	}
	ticket, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup ticket")
	}
	return ticket, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.ComplaintTicket, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	return rows, nil
}

// Transition enforces the workflow: only listed next statuses are allowed,
// and the status change, action row and outbox event commit together.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.ComplaintTicket, error) {
	if !input.To.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket status")
	}
	ticket, err := s.Get(ctx, input.TicketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.CanTransitionTo(input.To) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move ticket from %s to %s", ticket.Status, input.To))
	}

	from := ticket.Status
	action := &models.ComplaintAction{
		TicketID:   ticket.ID,
		FromStatus: from,
		ToStatus:   input.To,
		Note:       input.Note,
		ActorID:    input.ActorID,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, ticket.ID, input.To, action); err != nil {
			return err
		}
		var actorRef *outbox.ActorRef
		if input.ActorID != nil {
			actorRef = &outbox.ActorRef{UserID: *input.ActorID}
		}
		note := ""
		if input.Note != nil {
			note = *input.Note
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketStatusChanged,
			AggregateType: enums.AggregateTicket,
			AggregateID:   ticket.ID,
			Actor:         actorRef,
			Data: payloads.TicketStatusChangedEvent{
				TicketID:   ticket.ID,
				Code:       ticket.Code,
				OrderID:    ticket.OrderID,
				FromStatus: from,
				ToStatus:   input.To,
				Note:       note,
			},
		})
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition ticket")
	}
	ticket.Status = input.To
	ticket.Actions = append(ticket.Actions, *action)
	return ticket, nil
}
