package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/openhire/jobboard/internal/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, email, password_hash, role, disability, created_at, updated_at`

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
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, disability, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
		nullString(u.Disability), u.CreatedAt, u.UpdatedAt,
	)
	return mapConflict(err)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var disability sql.NullString

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&disability, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if disability.Valid {
		u.Disability = disability.String
	}
	return u, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
