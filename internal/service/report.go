package service

import (
	"context"
	"errors"
	"strings"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/internal/store"
	"github.com/opentransit/stationwatch/pkg/idx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

const (
	// RecentReportsPerStation caps per-station report listings.
	RecentReportsPerStation = 10

	// RecentReportsGlobal caps the cross-station recent feed. Enough to
	// cover every station with recent activity.
	RecentReportsGlobal = 300
)

var (
	ErrStationNotFound = errors.New("station_not_found")
	ErrEmptyContent    = errors.New("report content is required")
)

type ReportService struct {
	Store store.Store
}

// CreateReport stores a new report and mirrors its policePresent flag onto
// the station, so the map can color markers without aggregating reports.
// Both writes happen in one transaction.
func (s *ReportService) CreateReport(
	ctx context.Context,
	userID, stationID, content string,
	policePresent bool,
) (domain.Report, error) {
	log := slogx.FromContext(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Report{}, ErrEmptyContent
	}

	report := domain.Report{
		ID:            idx.New().String(),
		StationID:     stationID,
		UserID:        userID,
		Content:       content,
		PolicePresent: policePresent,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Stations().GetStationByID(ctx, stationID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrStationNotFound
			}
			return err
		}

		if err := tx.Reports().CreateReport(ctx, report); err != nil {
			return err
		}

		return tx.Stations().SetPoliceRecent(ctx, stationID, policePresent)
	})
	if err != nil {
		return domain.Report{}, err
	}

	log.Info("report created",
		"report_id", report.ID,
		"station_id", stationID,
		"police_present", policePresent,
	)

	return report, nil
}

// ListStationReports returns the most recent reports for one station.
func (s *ReportService) ListStationReports(ctx context.Context, stationID string) ([]domain.Report, error) {
	return s.Store.Reports().ListReportsByStation(ctx, stationID, RecentReportsPerStation)
}

// ListUserReports returns the calling user's reports with their stations.
func (s *ReportService) ListUserReports(ctx context.Context, userID string) ([]domain.Report, error) {
	return s.Store.Reports().ListReportsByUser(ctx, userID)
}

// ListRecentReports returns the newest reports across all stations.
func (s *ReportService) ListRecentReports(ctx context.Context) ([]domain.Report, error) {
	return s.Store.Reports().ListRecentReports(ctx, RecentReportsGlobal)
}
