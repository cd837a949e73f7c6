package repository

import (
	"context"

	"github.com/lostconnect/backend/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	// UpsertUser inserts the user or overwrites name/email/phone when the
	// id already exists. The write is a single statement and idempotent.
	UpsertUser(ctx context.Context, u *models.User) error
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUserName(ctx context.Context, id, name string) error
	DeleteUser(ctx context.Context, id string) error
	ListUsersByName(ctx context.Context, name string) ([]models.User, error)
}

type ProjectRepo interface {
	CreateProject(ctx context.Context, p *models.Project) (int64, error)
	// ListProjects returns all projects, each with its Creator summary
	// populated even when the owning user row is absent.
	ListProjects(ctx context.Context) ([]models.Project, error)
	DeleteAllProjects(ctx context.Context) (int64, error)
}

type LikeRepo interface {
	CreateLike(ctx context.Context, l *models.Like) (int64, error)
}

type CommentRepo interface {
	CreateComment(ctx context.Context, c *models.Comment) (int64, error)
	ListCommentsByProject(ctx context.Context, projectID int64) ([]models.Comment, error)
}
