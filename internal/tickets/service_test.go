package tickets

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/outbox"
	"github.com/karyatex/konveksi-backend/pkg/outbox/payloads"
)

type fakeTicketRepo struct {
	byID    map[uuid.UUID]*models.ComplaintTicket
	actions []*models.ComplaintAction
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: make(map[uuid.UUID]*models.ComplaintTicket)}
}

func (f *fakeTicketRepo) CreateTx(_ *gorm.DB, ticket *models.ComplaintTicket) error {
	ticket.ID = uuid.New()
	f.byID[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ComplaintTicket, error) {
	if ticket, ok := f.byID[id]; ok {
		return ticket, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTicketRepo) FindByCode(_ context.Context, code string) (*models.ComplaintTicket, error) {
	for _, ticket := range f.byID {
		if ticket.Code == code {
			return ticket, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTicketRepo) List(context.Context, ListFilter) ([]models.ComplaintTicket, error) {
	return nil, nil
}

func (f *fakeTicketRepo) UpdateStatusTx(_ *gorm.DB, ticketID uuid.UUID, status enums.TicketStatus, action *models.ComplaintAction) error {
	f.byID[ticketID].Status = status
	f.actions = append(f.actions, action)
	return nil
}

type stubOrders struct {
	known map[uuid.UUID]bool
}

func (s *stubOrders) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if s.known[id] {
		return &models.Order{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEmitter struct {
	events []outbox.DomainEvent
}

func (f *fakeEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestTicketService(t *testing.T) (Service, *fakeTicketRepo, *fakeEmitter, uuid.UUID) {
	t.Helper()
	repo := newFakeTicketRepo()
	emitter := &fakeEmitter{}
	orderID := uuid.New()
	orders := &stubOrders{known: map[uuid.UUID]bool{orderID: true}}
	svc, err := NewService(repo, orders, emitter, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).newCode = func() string { return "TK-1767225600123-482" }
	return svc, repo, emitter, orderID
}

func TestCreateTicketStartsWaitingQC(t *testing.T) {
	svc, _, emitter, orderID := newTestTicketService(t)

	ticket, err := svc.Create(context.Background(), CreateInput{
		OrderID:    orderID,
		TicketType: enums.TicketTypeDefect,
		Remedy:     enums.TicketRemedyReplace,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Status != enums.TicketStatusWaitingQC {
		t.Fatalf("status = %s, want WAITING_QC", ticket.Status)
	}
	if ticket.Code != "TK-1767225600123-482" {
		t.Fatalf("code = %q", ticket.Code)
	}
	if len(emitter.events) != 0 {
		t.Fatal("creation must not emit a status event")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _, _, orderID := newTestTicketService(t)

	cases := []struct {
		name  string
		input CreateInput
		code  pkgerrors.Code
	}{
		{"missing order", CreateInput{TicketType: enums.TicketTypeSize, Remedy: enums.TicketRemedyRepair}, pkgerrors.CodeValidation},
		{"bad type", CreateInput{OrderID: orderID, TicketType: enums.TicketType("smell"), Remedy: enums.TicketRemedyRepair}, pkgerrors.CodeValidation},
		{"bad remedy", CreateInput{OrderID: orderID, TicketType: enums.TicketTypeSize, Remedy: enums.TicketRemedy("credit")}, pkgerrors.CodeValidation},
		{"unknown order", CreateInput{OrderID: uuid.New(), TicketType: enums.TicketTypeSize, Remedy: enums.TicketRemedyRepair}, pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestTransitionFollowsWorkflow(t *testing.T) {
	svc, repo, emitter, orderID := newTestTicketService(t)

	ticket, err := svc.Create(context.Background(), CreateInput{
		OrderID:    orderID,
		TicketType: enums.TicketTypeDefect,
		Remedy:     enums.TicketRemedyReplace,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	steps := []enums.TicketStatus{
		enums.TicketStatusQCAccepted,
		enums.TicketStatusWaitingApproval,
		enums.TicketStatusApproved,
		enums.TicketStatusInProgress,
		enums.TicketStatusClosed,
	}
	for _, next := range steps {
		if _, err := svc.Transition(context.Background(), TransitionInput{TicketID: ticket.ID, To: next}); err != nil {
			t.Fatalf("Transition to %s: %v", next, err)
		}
	}

	if len(repo.actions) != len(steps) {
		t.Fatalf("expected %d action rows, got %d", len(steps), len(repo.actions))
	}
	if repo.actions[0].FromStatus != enums.TicketStatusWaitingQC || repo.actions[0].ToStatus != enums.TicketStatusQCAccepted {
		t.Fatalf("unexpected first action %+v", repo.actions[0])
	}
	if len(emitter.events) != len(steps) {
		t.Fatalf("expected %d events, got %d", len(steps), len(emitter.events))
	}
	last := emitter.events[len(emitter.events)-1].Data.(payloads.TicketStatusChangedEvent)
	if last.ToStatus != enums.TicketStatusClosed || last.Code != ticket.Code {
		t.Fatalf("unexpected last event %+v", last)
	}
}

func TestTransitionRejectsSkips(t *testing.T) {
	svc, _, emitter, orderID := newTestTicketService(t)

	ticket, err := svc.Create(context.Background(), CreateInput{
		OrderID:    orderID,
		TicketType: enums.TicketTypeColor,
		Remedy:     enums.TicketRemedyRefund,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// WAITING_QC cannot jump straight to APPROVED.
	_, err = svc.Transition(context.Background(), TransitionInput{TicketID: ticket.ID, To: enums.TicketStatusApproved})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatal("rejected transition must not emit")
	}

	// Rejected QC closes the ticket; nothing moves after CLOSED.
	if _, err := svc.Transition(context.Background(), TransitionInput{TicketID: ticket.ID, To: enums.TicketStatusQCRejected}); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if _, err := svc.Transition(context.Background(), TransitionInput{TicketID: ticket.ID, To: enums.TicketStatusClosed}); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	_, err = svc.Transition(context.Background(), TransitionInput{TicketID: ticket.ID, To: enums.TicketStatusWaitingQC})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict from CLOSED, got %v", err)
	}
}

func TestNewTicketCodeShape(t *testing.T) {
	code := NewTicketCode()
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != "TK" {
		t.Fatalf("code %q, want TK-<ms>-<rand>", code)
	}
	if len(parts[2]) != 3 {
		t.Fatalf("random suffix %q, want 3 digits", parts[2])
	}
}
