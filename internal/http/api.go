package http

import (
	"net/http"
	"time"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/pkg/httpx"
)

// Wire types for the JSON API.

type UserResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

type StationResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Lines        []string `json:"lines"`
	PoliceRecent bool     `json:"policeRecent"`
}

type ReportAuthor struct {
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

type ReportResponse struct {
	ID            string           `json:"id"`
	StationID     string           `json:"stationId"`
	Content       string           `json:"content"`
	PolicePresent bool             `json:"policePresent"`
	CreatedAt     time.Time        `json:"createdAt"`
	User          *ReportAuthor    `json:"user,omitempty"`
	Station       *StationResponse `json:"station,omitempty"`
}

type FavoriteResponse struct {
	ID        string           `json:"id"`
	StationID string           `json:"stationId"`
	CreatedAt time.Time        `json:"createdAt"`
	Station   *StationResponse `json:"station,omitempty"`
	Reports   []ReportResponse `json:"reports,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	httpx.WriteJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
	}
}

func toStationResponse(s domain.Station) StationResponse {
	return StationResponse{
		ID:           s.ID,
		Name:         s.Name,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		Lines:        s.Lines,
		PoliceRecent: s.PoliceRecent,
	}
}

func toReportResponse(r domain.Report, withAuthor bool) ReportResponse {
	resp := ReportResponse{
		ID:            r.ID,
		StationID:     r.StationID,
		Content:       r.Content,
		PolicePresent: r.PolicePresent,
		CreatedAt:     r.CreatedAt,
	}
	if withAuthor {
		resp.User = &ReportAuthor{Name: r.AuthorName, Image: r.AuthorImage}
	}
	if r.Station != nil {
		station := toStationResponse(*r.Station)
		resp.Station = &station
	}
	return resp
}

func toReportResponses(reports []domain.Report, withAuthor bool) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r, withAuthor))
	}
	return out
}
