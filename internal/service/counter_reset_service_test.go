package service

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/writer-dashboard/internal/models"
)

func newTestResetService(t *testing.T, marker string, now time.Time) (*counterResetService, *fakePostingAccountRepo, *fakeAppSettingsRepo, *fakeTransactor) {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clock := quartz.NewMock(t)
	clock.Set(now)

	pa := newFakePostingAccountRepo(
		&models.PostingAccount{ID: 1, Account: "Acme", Status: models.AccountStatusActive, DailyLimit: 5, DailyUsed: 5},
		&models.PostingAccount{ID: 2, Account: "Beta", Status: models.AccountStatusActive, DailyLimit: 3, DailyUsed: 1},
	)
	as := &fakeAppSettingsRepo{values: map[string]string{}}
	if marker != "" {
		as.values[models.LastCounterResetKey] = marker
	}
	tx := &fakeTransactor{}

	svc := NewCounterResetService(tx, pa, as, clock, loc).(*counterResetService)
	return svc, pa, as, tx
}

func TestCurrentDateUsesEasternTime(t *testing.T) {
	t.Parallel()

	// 03:00 UTC is still the previous evening in New York.
	svc, _, _, _ := newTestResetService(t, "", time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC))
	require.Equal(t, "2026-10-13", svc.CurrentDate())
}

func TestResetWithoutMarker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, pa, as, tx := newTestResetService(t, "", time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))

	result, err := svc.ResetIfStale(ctx)
	require.NoError(t, err)
	require.True(t, result.Reset)
	require.Equal(t, "2026-10-14", result.Date)
	require.Equal(t, 1, pa.resetCalls)
	require.Equal(t, 0, pa.dailyUsed(1))
	require.Equal(t, "2026-10-14", as.values[models.LastCounterResetKey])
	require.Equal(t, 1, tx.committed)
}

func TestResetOnNewDayOnlyOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, pa, as, _ := newTestResetService(t, "2026-10-13", time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))

	svc.CheckAndResetCounters(ctx)
	require.Equal(t, 1, pa.resetCalls)
	require.Equal(t, "2026-10-14", as.values[models.LastCounterResetKey])

	for i := 0; i < 5; i++ {
		svc.CheckAndResetCounters(ctx)
	}
	require.Equal(t, 1, pa.resetCalls)
}

func TestResetSkippedWhenMarkerCurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, marker := range []string{"2026-10-14", "2026-10-15"} {
		svc, pa, as, tx := newTestResetService(t, marker, time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))

		result, err := svc.ResetIfStale(ctx)
		require.NoError(t, err)
		require.False(t, result.Reset)
		require.Equal(t, 0, pa.resetCalls)
		require.Equal(t, 5, pa.dailyUsed(1))
		require.Equal(t, marker, as.values[models.LastCounterResetKey])
		require.Equal(t, 0, tx.rolledBack)
	}
}

func TestResetFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, pa, as, tx := newTestResetService(t, "2026-10-13", time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))
	pa.resetErr = errors.New("procedure reset_posting_daily_used() does not exist")

	_, err := svc.ResetIfStale(ctx)
	require.Error(t, err)
	require.Equal(t, 1, tx.rolledBack)
	require.Equal(t, "2026-10-13", as.values[models.LastCounterResetKey])

	require.NotPanics(t, func() { svc.CheckAndResetCounters(ctx) })
	require.Equal(t, 2, tx.rolledBack)
}

func TestResetMarkerReadFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, pa, as, tx := newTestResetService(t, "", time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC))
	as.getErr = errors.New("relation app_settings does not exist")

	_, err := svc.ResetIfStale(ctx)
	require.ErrorContains(t, err, "reset marker")
	require.Equal(t, 0, pa.resetCalls)
	require.Equal(t, 1, tx.rolledBack)
}

func TestResetAcrossMidnight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	svc, pa, _, _ := newTestResetService(t, "2026-10-13", time.Date(2026, 10, 13, 23, 59, 0, 0, loc))
	svc.CheckAndResetCounters(ctx)
	require.Equal(t, 0, pa.resetCalls)

	svc.clock.(*quartz.Mock).Set(time.Date(2026, 10, 14, 0, 1, 0, 0, loc))
	svc.CheckAndResetCounters(ctx)
	require.Equal(t, 1, pa.resetCalls)
}
