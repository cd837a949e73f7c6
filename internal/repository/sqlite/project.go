package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lostconnect/backend/internal/models"
)

func (r *SQLiteRepo) CreateProject(ctx context.Context, p *models.Project) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("project is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO projects (title, description, status, category, lat, lng, image_url, created, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Status, p.Category, p.Lat, p.Lng, p.ImageURL, now(), nullable(p.UserID))
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// ListProjects returns every project joined with a creator summary.
// The join is a LEFT JOIN: a project whose user row no longer exists
// still lists, with the creator name and email downgraded to the
// Unknown sentinel.
func (r *SQLiteRepo) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT p.id, p.title, p.description, p.status, p.category, p.lat, p.lng, p.image_url, p.created, p.user_id,
		u.id, u.name, u.email
		FROM projects p LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var desc, category, userID sql.NullString
		var lat, lng sql.NullFloat64
		var imageURL sql.NullString
		var cID, cName, cEmail sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &desc, &p.Status, &category, &lat, &lng, &imageURL, &p.Created, &userID,
			&cID, &cName, &cEmail); err != nil {
			return nil, err
		}

		p.Description = desc.String
		p.Category = category.String
		p.Lat = lat.Float64
		p.Lng = lng.Float64
		p.UserID = userID.String
		if imageURL.Valid {
			p.ImageURL = &imageURL.String
		}

		creator := models.Creator{
			ID:    p.UserID,
			Name:  models.UnknownName,
			Email: models.UnknownName,
		}
		if cID.Valid {
			creator.ID = cID.String
			if cName.String != "" {
				creator.Name = cName.String
			}
			if cEmail.String != "" {
				creator.Email = cEmail.String
			}
		}
		p.Creator = &creator

		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteAllProjects(ctx context.Context) (int64, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM projects`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
