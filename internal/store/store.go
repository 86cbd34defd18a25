package store

import (
	"context"
	"errors"
	"time"

	"github.com/opentransit/stationwatch/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Stations() Stations
	Reports() Reports
	Favorites() Favorites

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by its natural key.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if a user with the same email exists.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes a user. Reports and favorites cascade per schema.
	DeleteUser(ctx context.Context, userID string) error
}

type Stations interface {
	// GetStationByID returns a station by id.
	GetStationByID(ctx context.Context, id string) (domain.Station, error)

	// ListStations returns all stations ordered by name.
	ListStations(ctx context.Context) ([]domain.Station, error)

	// CreateStation inserts a new station (id is ULID).
	CreateStation(ctx context.Context, s domain.Station) error

	// SetPoliceRecent updates the station's police_recent flag and bumps
	// updated_at. Called when a new report lands for the station.
	SetPoliceRecent(ctx context.Context, stationID string, present bool) error

	// IsEmpty returns true if there are no stations (used by the seeder).
	IsEmpty(ctx context.Context) (bool, error)
}

type Reports interface {
	// CreateReport stores a new report.
	CreateReport(ctx context.Context, r domain.Report) error

	// ListReportsByStation returns the most recent reports for a station,
	// newest first, with author name/image joined in.
	ListReportsByStation(ctx context.Context, stationID string, limit int) ([]domain.Report, error)

	// ListReportsByUser returns a user's reports, newest first, with the
	// station joined in.
	ListReportsByUser(ctx context.Context, userID string) ([]domain.Report, error)

	// ListRecentReports returns the newest reports across all stations.
	ListRecentReports(ctx context.Context, limit int) ([]domain.Report, error)

	// DeleteReportsBefore removes reports created before the cutoff.
	// Housekeeping to keep the reports table bounded.
	DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Favorites interface {
	// GetFavorite returns the favorite for a (user, station) pair.
	GetFavorite(ctx context.Context, userID, stationID string) (domain.Favorite, error)

	// CreateFavorite inserts a favorite (id is ULID). Returns
	// ErrAlreadyExists when the pair is already favorited.
	CreateFavorite(ctx context.Context, f domain.Favorite) error

	// DeleteFavorite removes a favorite by id.
	DeleteFavorite(ctx context.Context, id string) error

	// ListFavoritesByUser returns a user's favorites, newest first, with
	// stations joined in.
	ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
}
