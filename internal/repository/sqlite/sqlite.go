package sqlite

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lostconnect/backend/internal/db"
	"github.com/lostconnect/backend/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.ProjectRepo = (*SQLiteRepo)(nil)
var _ repository.LikeRepo = (*SQLiteRepo)(nil)
var _ repository.CommentRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueConstraintError checks if the error is a SQLite unique
// constraint violation. modernc.org/sqlite does not export a stable
// typed error for this, so match on the message.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
