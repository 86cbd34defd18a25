package domain

import "time"

// Favorite marks a station as favorited by a user. At most one row exists
// per (user, station) pair, enforced by a uniqueness constraint.
type Favorite struct {
	ID        string
	UserID    string
	StationID string
	CreatedAt time.Time

	// Optional joined data for favorites listings.
	Station *Station
	Reports []Report // few most recent reports for the station
}
