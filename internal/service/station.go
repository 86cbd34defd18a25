package service

import (
	"context"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/internal/store"
)

type StationService struct {
	Store store.Store
}

// ListStations returns all stations for map rendering.
func (s *StationService) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.Store.Stations().ListStations(ctx)
}

// GetStation returns a station with its most recent reports attached.
func (s *StationService) GetStation(ctx context.Context, id string) (domain.Station, []domain.Report, error) {
	station, err := s.Store.Stations().GetStationByID(ctx, id)
	if err != nil {
		return domain.Station{}, nil, err
	}

	reports, err := s.Store.Reports().ListReportsByStation(ctx, id, RecentReportsPerStation)
	if err != nil {
		return domain.Station{}, nil, err
	}

	return station, reports, nil
}
