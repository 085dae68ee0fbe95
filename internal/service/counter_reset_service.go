package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/quartz"
	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/repository"
	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

const dateLayout = "2006-01-02"

type CounterResetService interface {
	// CheckAndResetCounters resets daily usage when a new day has started.
	// Failures are logged and never returned.
	CheckAndResetCounters(ctx context.Context)
	ResetIfStale(ctx context.Context) (*transfer.CounterReset, error)
	CurrentDate() string
}

type counterResetService struct {
	tx    repository.Transactor
	pa    repository.PostingAccountRepository
	as    repository.AppSettingsRepository
	clock quartz.Clock
	loc   *time.Location
}

func NewCounterResetService(
	tx repository.Transactor,
	pa repository.PostingAccountRepository,
	as repository.AppSettingsRepository,
	clock quartz.Clock,
	loc *time.Location) CounterResetService {
	return &counterResetService{
		tx:    tx,
		pa:    pa,
		as:    as,
		clock: clock,
		loc:   loc,
	}
}

func (s *counterResetService) CurrentDate() string {
	return s.clock.Now().In(s.loc).Format(dateLayout)
}

func (s *counterResetService) CheckAndResetCounters(ctx context.Context) {
	result, err := s.ResetIfStale(ctx)
	if err != nil {
		slog.Error("error resetting daily counters", "error", err)
		return
	}
	if result.Reset {
		slog.Info("daily posting account counters reset", "date", result.Date)
	}
}

// ResetIfStale compares today's date against the stored marker inside one
// transaction. ISO dates compare correctly as strings.
func (s *counterResetService) ResetIfStale(ctx context.Context) (*transfer.CounterReset, error) {
	today := s.CurrentDate()
	result := &transfer.CounterReset{Date: today}

	err := s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		marker, found, err := s.as.GetByKey(ctx, tx, models.LastCounterResetKey)
		if err != nil {
			return fmt.Errorf("failed to read reset marker: %w", err)
		}

		if found && today <= marker.Value {
			return nil
		}

		if found {
			slog.Info("resetting counters", "date", today, "last_reset", marker.Value)
		} else {
			slog.Info("resetting counters, no previous reset marker", "date", today)
		}

		if err := s.pa.ResetDailyUsed(ctx, tx); err != nil {
			return fmt.Errorf("failed to reset daily counters: %w", err)
		}

		if _, err := s.as.AdvanceValue(ctx, tx, models.LastCounterResetKey, today); err != nil {
			return fmt.Errorf("failed to update reset marker: %w", err)
		}

		result.Reset = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
