package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingDefaults(t *testing.T) {
	t.Parallel()

	svc := NewHousekeepingService(nil, slog.Default(), 0, 0)
	require.Equal(t, time.Hour, svc.Interval)
	require.Equal(t, 30*24*time.Hour, svc.Retention)
}

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	user := seedUser(t, st, "rider", "rider@example.com")
	station := seedStation(t, st, "Canal St")

	require.NoError(t, st.Reports().CreateReport(ctx, domain.Report{
		ID:        idx.New().String(),
		StationID: station.ID,
		UserID:    user.ID,
		Content:   "fresh",
	}))

	// A generous retention keeps the fresh report through the startup sweep.
	svc := NewHousekeepingService(st, slog.Default(), time.Hour, 24*time.Hour)
	svc.cleanup()

	reports, err := st.Reports().ListReportsByStation(ctx, station.ID, 10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)

	svc := NewHousekeepingService(st, slog.Default(), time.Hour, 24*time.Hour)
	svc.Start()
	svc.Stop() // must not hang or panic
}
