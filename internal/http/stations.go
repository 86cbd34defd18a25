package http

import (
	"errors"
	"net/http"

	"github.com/opentransit/stationwatch/internal/service"
	"github.com/opentransit/stationwatch/internal/store"
	"github.com/opentransit/stationwatch/pkg/httpx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

type StationsHandler struct {
	StationService *service.StationService
}

// HandleList serves GET /v1/stations.
func (h *StationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stations, err := h.StationService.ListStations(ctx)
	if err != nil {
		log.Error("failed to list stations", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list stations")
		return
	}

	out := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, toStationResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type stationDetailResponse struct {
	StationResponse

	Reports []ReportResponse `json:"reports"`
}

// HandleGet serves GET /v1/stations/{id}, the station plus its most recent
// reports.
func (h *StationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")

	station, reports, err := h.StationService.GetStation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "station not found")
			return
		}
		log.Error("failed to load station", "station_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to load station")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, stationDetailResponse{
		StationResponse: toStationResponse(station),
		Reports:         toReportResponses(reports, true),
	})
}
