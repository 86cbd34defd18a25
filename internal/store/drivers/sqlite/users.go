package sqlite

import (
	"context"
	"database/sql"

	"github.com/opentransit/stationwatch/internal/domain"
)

type usersRepo struct {
	db querier
}

const userColumns = `id, name, email, image, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, image) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, mapStringNull(u.Image))
	return mapConstraint(err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var image sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &image, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Image = mapNullString(image)
	return u, nil
}
