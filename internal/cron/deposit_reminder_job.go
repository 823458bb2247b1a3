package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

const depositReminderWindowDays = 2

type depositReminderRepo interface {
	ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Deposit, error)
	Update(ctx context.Context, deposit *models.Deposit) error
}

type DepositReminderJobParams struct {
	Logger     *logger.Logger
	Deposits   depositReminderRepo
	WindowDays int
}

// NewDepositReminderJob flags unpaid deposits expiring inside the reminder
// window so the front office can chase the customer.
func NewDepositReminderJob(params DepositReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Deposits == nil {
		return nil, fmt.Errorf("deposit source required")
	}
	window := params.WindowDays
	if window <= 0 {
		window = depositReminderWindowDays
	}
	return &depositReminderJob{
		logg:     params.Logger,
		deposits: params.Deposits,
		window:   window,
		now:      time.Now,
	}, nil
}

type depositReminderJob struct {
	logg     *logger.Logger
	deposits depositReminderRepo
	window   int
	now      func() time.Time
}

func (j *depositReminderJob) Name() string { return "deposit-reminder" }

func (j *depositReminderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(time.Duration(j.window) * 24 * time.Hour)
	pending, err := j.deposits.ListPendingReminders(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("deposit reminder: list pending: %w", err)
	}
	now := j.now().UTC()
	var sent int
	for i := range pending {
		deposit := &pending[i]
		depCtx := j.logg.WithFields(ctx, map[string]any{
			"deposit_id": deposit.ID,
			"order_id":   deposit.OrderID,
			"expires_at": deposit.ExpiresAt,
		})
		j.logg.Info(depCtx, "deposit nearing expiry; reminder due")
		stamped := now
		deposit.ReminderSentAt = &stamped
		if err := j.deposits.Update(ctx, deposit); err != nil {
			j.logg.Error(depCtx, "failed to mark deposit reminder sent", err)
			continue
		}
		sent++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"window_days":    j.window,
		"pending_count":  len(pending),
		"reminders_sent": sent,
	})
	j.logg.Info(logCtx, "deposit reminder sweep complete")
	return nil
}
