package sqlite

import (
	"context"

	"github.com/opentransit/stationwatch/internal/domain"
)

type favoritesRepo struct {
	db querier
}

func (r *favoritesRepo) GetFavorite(ctx context.Context, userID, stationID string) (domain.Favorite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, station_id, created_at
		 FROM favorites WHERE user_id = ? AND station_id = ?`,
		userID, stationID)

	var f domain.Favorite
	err := row.Scan(&f.ID, &f.UserID, &f.StationID, &f.CreatedAt)
	if err != nil {
		return domain.Favorite{}, mapNotFound(err)
	}
	return f, nil
}

func (r *favoritesRepo) CreateFavorite(ctx context.Context, f domain.Favorite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, station_id) VALUES (?, ?, ?)`,
		f.ID, f.UserID, f.StationID)
	return mapConstraint(err)
}

func (r *favoritesRepo) DeleteFavorite(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	return err
}

func (r *favoritesRepo) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.id, f.user_id, f.station_id, f.created_at,
		        s.id, s.name, s.latitude, s.longitude, s.lines, s.police_recent, s.created_at, s.updated_at
		 FROM favorites f
		 JOIN stations s ON s.id = f.station_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		var st domain.Station
		var lines string
		err := rows.Scan(&f.ID, &f.UserID, &f.StationID, &f.CreatedAt,
			&st.ID, &st.Name, &st.Latitude, &st.Longitude, &lines,
			&st.PoliceRecent, &st.CreatedAt, &st.UpdatedAt)
		if err != nil {
			return nil, err
		}
		st.Lines = splitLines(lines)
		f.Station = &st
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach the few most recent reports per favorited station. Favorites
	// lists are short so the per-station query is fine.
	reports := &reportsRepo{db: r.db}
	for i := range out {
		recent, err := reports.ListReportsByStation(ctx, out[i].StationID, 3)
		if err != nil {
			return nil, err
		}
		out[i].Reports = recent
	}

	return out, nil
}
