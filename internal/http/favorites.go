package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opentransit/stationwatch/internal/service"
	"github.com/opentransit/stationwatch/pkg/httpx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

type FavoritesHandler struct {
	FavoriteService *service.FavoriteService
}

type toggleFavoriteRequest struct {
	StationID string `json:"stationId"`
}

// HandleToggle serves POST /v1/favorites/toggle (authenticated).
func (h *FavoritesHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign-in required")
		return
	}

	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.StationID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "stationId is required")
		return
	}

	status, err := h.FavoriteService.ToggleFavorite(ctx, userID, req.StationID)
	if err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "station not found")
			return
		}
		log.Error("failed to toggle favorite", "station_id", req.StationID, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to toggle favorite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}

// HandleList serves GET /v1/favorites (authenticated).
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign-in required")
		return
	}

	favorites, err := h.FavoriteService.ListFavorites(ctx, userID)
	if err != nil {
		log.Error("failed to list favorites", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list favorites")
		return
	}

	out := make([]FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		resp := FavoriteResponse{
			ID:        f.ID,
			StationID: f.StationID,
			CreatedAt: f.CreatedAt,
			Reports:   toReportResponses(f.Reports, true),
		}
		if f.Station != nil {
			station := toStationResponse(*f.Station)
			resp.Station = &station
		}
		out = append(out, resp)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleIsFavorite serves GET /v1/favorites/{stationId} (authenticated).
func (h *FavoritesHandler) HandleIsFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign-in required")
		return
	}

	stationID := r.PathValue("stationId")

	favorited, err := h.FavoriteService.IsFavorite(ctx, userID, stationID)
	if err != nil {
		log.Error("failed to check favorite", "station_id", stationID, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "failed to check favorite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"isFavorite": favorited})
}
