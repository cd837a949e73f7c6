package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/models"
)

func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if u.Name == "" {
		u.Name = models.UnknownName
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, name, email, phone, created) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, phone=excluded.phone`,
		u.ID, u.Name, nullable(u.Email), nullable(u.Phone), now())
	if isUniqueConstraintError(err) {
		return apperror.Conflict("user", u.Email)
	}
	return err
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if u.Name == "" {
		u.Name = models.UnknownName
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, name, email, phone, created) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, nullable(u.Email), nullable(u.Phone), now())
	if isUniqueConstraintError(err) {
		return apperror.Conflict("user", u.ID)
	}
	return err
}

func (r *SQLiteRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, phone, created FROM users WHERE id = ?`, id)
	var u models.User
	var email, phone sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &email, &phone, &u.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.Email = email.String
	u.Phone = phone.String
	return &u, nil
}

func (r *SQLiteRepo) UpdateUserName(ctx context.Context, id, name string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET name = ? WHERE id = ?`, name, id)
	return err
}

// DeleteUser removes the user; owned projects, likes and comments go
// with it via ON DELETE CASCADE. Deleting an absent id is a no-op.
func (r *SQLiteRepo) DeleteUser(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) ListUsersByName(ctx context.Context, name string) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, email, phone, created FROM users WHERE name = ? ORDER BY created`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var email, phone sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &email, &phone, &u.Created); err != nil {
			return nil, err
		}
		u.Email = email.String
		u.Phone = phone.String

		out = append(out, u)
	}

	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
