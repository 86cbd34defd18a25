package domain

import "time"

// Report is a user-submitted police presence report for a station.
type Report struct {
	ID            string
	StationID     string
	UserID        string
	Content       string
	PolicePresent bool
	CreatedAt     time.Time

	// Optional joined data, populated by list queries that include the
	// report author or station.
	AuthorName  string
	AuthorImage *string
	Station     *Station
}
