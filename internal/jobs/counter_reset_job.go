package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/writer-dashboard/internal/service"
)

// CounterResetJob resets the daily counters shortly after the reset day
// rolls over, so they are current before the first request of the day.
type CounterResetJob struct {
	reset   service.CounterResetService
	timeout time.Duration
}

func NewCounterResetJob(reset service.CounterResetService) *CounterResetJob {
	return &CounterResetJob{
		reset:   reset,
		timeout: 30 * time.Second,
	}
}

func (c *CounterResetJob) ResetCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result, err := c.reset.ResetIfStale(ctx)
	if err != nil {
		slog.Error("scheduled counter reset failed", "error", err)
		return
	}

	if result.Reset {
		slog.Info("daily counters reset by schedule", "date", result.Date)
	}
}
