package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opentransit/stationwatch/internal/service"
	"github.com/opentransit/stationwatch/pkg/httpx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

type ReportsHandler struct {
	ReportService *service.ReportService
}

type createReportRequest struct {
	StationID     string `json:"stationId"`
	Content       string `json:"content"`
	PolicePresent bool   `json:"policePresent"`
}

// HandleCreate serves POST /v1/reports (authenticated).
func (h *ReportsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign-in required")
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.StationID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "stationId is required")
		return
	}

	report, err := h.ReportService.CreateReport(ctx, userID, req.StationID, req.Content, req.PolicePresent)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "not_found", "station not found")
		case errors.Is(err, service.ErrEmptyContent):
			writeError(w, http.StatusBadRequest, "invalid_request", "report content is required")
		default:
			log.Error("failed to create report", "station_id", req.StationID, "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "failed to create report")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toReportResponse(report, false))
}

// HandleListByStation serves GET /v1/stations/{id}/reports.
func (h *ReportsHandler) HandleListByStation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stationID := r.PathValue("id")

	reports, err := h.ReportService.ListStationReports(ctx, stationID)
	if err != nil {
		log.Error("failed to list station reports", "station_id", stationID, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list reports")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponses(reports, true))
}

// HandleListRecent serves GET /v1/reports/recent, the cross-station feed.
func (h *ReportsHandler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	reports, err := h.ReportService.ListRecentReports(ctx)
	if err != nil {
		log.Error("failed to list recent reports", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list reports")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponses(reports, true))
}

// HandleListMine serves GET /v1/me/reports (authenticated).
func (h *ReportsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign-in required")
		return
	}

	reports, err := h.ReportService.ListUserReports(ctx, userID)
	if err != nil {
		log.Error("failed to list user reports", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list reports")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReportResponses(reports, false))
}
