package sqlite

import (
	"context"
	"fmt"

	"github.com/lostconnect/backend/internal/models"
)

func (r *SQLiteRepo) CreateComment(ctx context.Context, c *models.Comment) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("comment is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO comments (content, created, user_id, project_id) VALUES (?, ?, ?, ?)`,
		c.Content, now(), c.UserID, c.ProjectID)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListCommentsByProject(ctx context.Context, projectID int64) ([]models.Comment, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, content, created, user_id, project_id FROM comments WHERE project_id = ? ORDER BY created, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.Created, &c.UserID, &c.ProjectID); err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}
