package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/opentransit/stationwatch/internal/domain"
)

type reportsRepo struct {
	db querier
}

func (r *reportsRepo) CreateReport(ctx context.Context, rep domain.Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, station_id, user_id, content, police_present)
		 VALUES (?, ?, ?, ?, ?)`,
		rep.ID, rep.StationID, rep.UserID, rep.Content, rep.PolicePresent)
	return mapConstraint(err)
}

func (r *reportsRepo) ListReportsByStation(
	ctx context.Context,
	stationID string,
	limit int,
) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.station_id, r.user_id, r.content, r.police_present, r.created_at,
		        u.name, u.image
		 FROM reports r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.station_id = ?
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`,
		stationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		var rep domain.Report
		var image sql.NullString
		err := rows.Scan(&rep.ID, &rep.StationID, &rep.UserID, &rep.Content,
			&rep.PolicePresent, &rep.CreatedAt, &rep.AuthorName, &image)
		if err != nil {
			return nil, err
		}
		rep.AuthorImage = mapNullString(image)
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *reportsRepo) ListReportsByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.station_id, r.user_id, r.content, r.police_present, r.created_at,
		        s.id, s.name, s.latitude, s.longitude, s.lines, s.police_recent, s.created_at, s.updated_at
		 FROM reports r
		 JOIN stations s ON s.id = r.station_id
		 WHERE r.user_id = ?
		 ORDER BY r.created_at DESC, r.id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		var rep domain.Report
		var st domain.Station
		var lines string
		err := rows.Scan(&rep.ID, &rep.StationID, &rep.UserID, &rep.Content,
			&rep.PolicePresent, &rep.CreatedAt,
			&st.ID, &st.Name, &st.Latitude, &st.Longitude, &lines,
			&st.PoliceRecent, &st.CreatedAt, &st.UpdatedAt)
		if err != nil {
			return nil, err
		}
		st.Lines = splitLines(lines)
		rep.Station = &st
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *reportsRepo) ListRecentReports(ctx context.Context, limit int) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.station_id, r.user_id, r.content, r.police_present, r.created_at,
		        u.name
		 FROM reports r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		var rep domain.Report
		err := rows.Scan(&rep.ID, &rep.StationID, &rep.UserID, &rep.Content,
			&rep.PolicePresent, &rep.CreatedAt, &rep.AuthorName)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *reportsRepo) DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	// created_at defaults to CURRENT_TIMESTAMP, which sqlite stores as
	// "YYYY-MM-DD HH:MM:SS" UTC text. Compare in the same format.
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE created_at < ?`,
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
