package sqlite

import (
	"context"
	"fmt"

	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/models"
)

func (r *SQLiteRepo) CreateLike(ctx context.Context, l *models.Like) (int64, error) {
	if l == nil {
		return 0, fmt.Errorf("like is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO likes (user_id, project_id, created) VALUES (?, ?, ?)`,
		l.UserID, l.ProjectID, now())
	if isUniqueConstraintError(err) {
		return 0, apperror.Conflict("like", fmt.Sprintf("user %s already liked project %d", l.UserID, l.ProjectID))
	}
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}
