package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type orderCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type forecastCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListEstimatesPending(ctx context.Context, limit int) ([]models.Forecast, error)
}

type defectCounter interface {
	CountFinishingDefectsBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type ticketCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type depositReminders interface {
	ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Deposit, error)
}

// Range bounds dashboard counts to [From, To). A zero To means "now"; a zero
// From means thirty days before To.
type Range struct {
	From time.Time
	To   time.Time
}

// Summary carries the headline counts for one period.
type Summary struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	Orders           int64     `json:"orders"`
	Forecasts        int64     `json:"forecasts"`
	FinishingDefects int64     `json:"finishing_defects"`
	Complaints       int64     `json:"complaints"`
}

// Service aggregates figures across the production domains for the dashboard.
type Service interface {
	Summarize(ctx context.Context, rng Range) (*Summary, error)
	UpcomingEstimates(ctx context.Context, limit int) ([]models.Forecast, error)
	DueDepositReminders(ctx context.Context) ([]models.Deposit, error)
}

type service struct {
	orders    orderCounter
	forecasts forecastCounter
	defects   defectCounter
	tickets   ticketCounter
	deposits  depositReminders
	now       func() time.Time
}

// NewService builds the dashboard service.
func NewService(orders orderCounter, forecasts forecastCounter, defects defectCounter, tickets ticketCounter, deposits depositReminders) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order counter required")
	}
	if forecasts == nil {
		return nil, fmt.Errorf("forecast counter required")
	}
	if defects == nil {
		return nil, fmt.Errorf("defect counter required")
	}
	if tickets == nil {
		return nil, fmt.Errorf("ticket counter required")
	}
	if deposits == nil {
		return nil, fmt.Errorf("deposit reminder lister required")
	}
	return &service{
		orders:    orders,
		forecasts: forecasts,
		defects:   defects,
		tickets:   tickets,
		deposits:  deposits,
		now:       time.Now,
	}, nil
}

const defaultWindow = 30 * 24 * time.Hour

func (s *service) resolveRange(rng Range) (Range, error) {
	if rng.To.IsZero() {
		rng.To = s.now()
	}
	if rng.From.IsZero() {
		rng.From = rng.To.Add(-defaultWindow)
	}
	if !rng.From.Before(rng.To) {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "from must be before to")
	}
	return rng, nil
}

func (s *service) Summarize(ctx context.Context, rng Range) (*Summary, error) {
	rng, err := s.resolveRange(rng)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.CountCreatedBetween(ctx, rng.From, rng.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	forecasts, err := s.forecasts.CountCreatedBetween(ctx, rng.From, rng.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count forecasts")
	}
	defects, err := s.defects.CountFinishingDefectsBetween(ctx, rng.From, rng.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count finishing defects")
	}
	complaints, err := s.tickets.CountCreatedBetween(ctx, rng.From, rng.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}

	return &Summary{
		From:             rng.From,
		To:               rng.To,
		Orders:           orders,
		Forecasts:        forecasts,
		FinishingDefects: defects,
		Complaints:       complaints,
	}, nil
}

const defaultEstimateLimit = 10

// UpcomingEstimates lists the oldest forecasts still waiting for a customer
// estimate, oldest first.
func (s *service) UpcomingEstimates(ctx context.Context, limit int) ([]models.Forecast, error) {
	if limit <= 0 {
		limit = defaultEstimateLimit
	}
	rows, err := s.forecasts.ListEstimatesPending(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending estimates")
	}
	return rows, nil
}

// DueDepositReminders lists unpaid deposits whose expiry has passed and that
// have not been reminded yet.
func (s *service) DueDepositReminders(ctx context.Context) ([]models.Deposit, error) {
	rows, err := s.deposits.ListPendingReminders(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deposit reminders")
	}
	return rows, nil
}
