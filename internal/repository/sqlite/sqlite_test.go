package sqlite_test

import (
	"context"
	"errors"
	"testing"

	migrations "github.com/lostconnect/backend/db"
	"github.com/lostconnect/backend/internal/apperror"
	dbpkg "github.com/lostconnect/backend/internal/db"
	"github.com/lostconnect/backend/internal/models"
	sqlite "github.com/lostconnect/backend/internal/repository/sqlite"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()

	d, err := dbpkg.New(ctx, "file:"+t.Name()+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, migrations.Migrations); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return sqlite.New(d, nil)
}

func TestUpsertUser_Idempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &models.User{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+44"}
	if err := repo.UpsertUser(ctx, u); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertUser(ctx, u); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil || got.Name != "Ada Lovelace" || got.Email != "ada@example.com" || got.Phone != "+44" {
		t.Fatalf("unexpected user after double upsert: %#v", got)
	}
}

func TestUpsertUser_OverwritesFields(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.UpsertUser(ctx, &models.User{ID: "u1", Name: "Old", Email: "old@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertUser(ctx, &models.User{ID: "u1", Name: "New", Email: "new@example.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "New" || got.Email != "new@example.com" {
		t.Fatalf("expected overwritten fields got %#v", got)
	}
}

func TestUpsertUser_EmptyNameStoresSentinel(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.UpsertUser(ctx, &models.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _ := repo.GetUser(ctx, "u1")
	if got.Name != models.UnknownName {
		t.Fatalf("expected sentinel name got %q", got.Name)
	}
}

func TestCreateUser_DuplicateEmailConflicts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Email: "same@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.CreateUser(ctx, &models.User{ID: "u2", Email: "same@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict error got %v", err)
	}
}

func TestGetUser_AbsentReturnsNilNil(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.GetUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("expected no error for absent user, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent user got %#v", got)
	}
}

func TestDeleteUser_CascadesToOwnedRows(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	pid, err := repo.CreateProject(ctx, &models.Project{Title: "Lost cat", Status: models.StatusLost, UserID: "u1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := repo.CreateLike(ctx, &models.Like{UserID: "u1", ProjectID: pid}); err != nil {
		t.Fatalf("create like: %v", err)
	}
	if _, err := repo.CreateComment(ctx, &models.Comment{UserID: "u1", ProjectID: pid, Content: "hi"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := repo.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("expected cascade delete of projects, got %d", len(projects))
	}
	comments, err := repo.ListCommentsByProject(ctx, pid)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected cascade delete of comments, got %d", len(comments))
	}
}

func TestDeleteUser_AbsentIsNoop(t *testing.T) {
	repo := setupRepo(t)
	if err := repo.DeleteUser(context.Background(), "ghost"); err != nil {
		t.Fatalf("expected no error deleting absent user, got %v", err)
	}
}

func TestListUsersByName(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, u := range []*models.User{
		{ID: "u1", Name: models.UnknownName, Email: "a@b.com"},
		{ID: "u2", Name: "Known", Email: "b@b.com"},
		{ID: "u3", Name: models.UnknownName, Email: "c@b.com"},
	} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("create %s: %v", u.ID, err)
		}
	}

	got, err := repo.ListUsersByName(ctx, models.UnknownName)
	if err != nil {
		t.Fatalf("ListUsersByName: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 unknown users got %d", len(got))
	}
}

func TestListProjects_CreatorJoin(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := repo.CreateProject(ctx, &models.Project{Title: "Lost dog", Status: models.StatusLost, Category: models.CategoryAnimal, Lat: 12.9, Lng: 77.6, UserID: "u1"}); err != nil {
		t.Fatalf("create project: %v", err)
	}

	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project got %d", len(projects))
	}

	c := projects[0].Creator
	if c == nil {
		t.Fatalf("expected creator summary")
	}
	if c.ID != "u1" || c.Name != "Ada" || c.Email != "ada@example.com" {
		t.Fatalf("unexpected creator %#v", c)
	}
}

func TestListProjects_MissingUserYieldsDefaults(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// project without a user row: user_id references nothing because
	// it was inserted as NULL
	if _, err := repo.CreateProject(ctx, &models.Project{Title: "Orphaned", Status: models.StatusFound}); err != nil {
		t.Fatalf("create project: %v", err)
	}

	projects, err := repo.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project got %d", len(projects))
	}

	c := projects[0].Creator
	if c == nil || c.Name != models.UnknownName || c.Email != models.UnknownName {
		t.Fatalf("expected sentinel creator defaults got %#v", c)
	}
}

func TestCreateLike_DuplicatePairConflicts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	pid, err := repo.CreateProject(ctx, &models.Project{Title: "Lost cat", Status: models.StatusLost, UserID: "u1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := repo.CreateLike(ctx, &models.Like{UserID: "u1", ProjectID: pid}); err != nil {
		t.Fatalf("first like: %v", err)
	}

	_, err = repo.CreateLike(ctx, &models.Like{UserID: "u1", ProjectID: pid})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict for duplicate like got %v", err)
	}
}

func TestDeleteAllProjects_ReturnsCount(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := repo.CreateProject(ctx, &models.Project{Title: "p", Status: models.StatusLost, UserID: "u1"}); err != nil {
			t.Fatalf("create project: %v", err)
		}
	}

	n, err := repo.DeleteAllProjects(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted got %d", n)
	}

	projects, _ := repo.ListProjects(ctx)
	if len(projects) != 0 {
		t.Fatalf("expected empty table got %d rows", len(projects))
	}
}

func TestComments_CreateAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	pid, err := repo.CreateProject(ctx, &models.Project{Title: "Lost cat", Status: models.StatusLost, UserID: "u1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	for _, content := range []string{"seen it near the park", "any update?"} {
		if _, err := repo.CreateComment(ctx, &models.Comment{UserID: "u1", ProjectID: pid, Content: content}); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, err := repo.ListCommentsByProject(ctx, pid)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments got %d", len(comments))
	}
	if comments[0].Content != "seen it near the park" {
		t.Fatalf("unexpected first comment %q", comments[0].Content)
	}
}
