package domain

import "time"

// Station is a transit station shown on the map.
type Station struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	Lines        []string // train lines serving the station, e.g. ["N", "W"]
	PoliceRecent bool     // mirrors the policePresent flag of the latest report
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
