package sqlite

import (
	"context"
	"database/sql"

	"github.com/opentransit/stationwatch/internal/domain"
)

type stationsRepo struct {
	db querier
}

const stationColumns = `id, name, latitude, longitude, lines, police_recent, created_at, updated_at`

func (r *stationsRepo) GetStationByID(ctx context.Context, id string) (domain.Station, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+stationColumns+` FROM stations WHERE id = ?`, id)
	return scanStationRow(row)
}

func (r *stationsRepo) ListStations(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stationColumns+` FROM stations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Station
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *stationsRepo) CreateStation(ctx context.Context, s domain.Station) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stations (id, name, latitude, longitude, lines, police_recent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Latitude, s.Longitude, joinLines(s.Lines), s.PoliceRecent)
	return mapConstraint(err)
}

func (r *stationsRepo) SetPoliceRecent(ctx context.Context, stationID string, present bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stations SET police_recent = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		present, stationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *stationsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanStationRow(row *sql.Row) (domain.Station, error) {
	var s domain.Station
	var lines string
	err := row.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &lines,
		&s.PoliceRecent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Station{}, mapNotFound(err)
	}
	s.Lines = splitLines(lines)
	return s, nil
}

func scanStation(rows *sql.Rows) (domain.Station, error) {
	var s domain.Station
	var lines string
	err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &lines,
		&s.PoliceRecent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Station{}, err
	}
	s.Lines = splitLines(lines)
	return s, nil
}
