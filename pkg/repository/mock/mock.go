package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/models"
)

// UserRepo is an in-memory repository.UserRepo for tests.
type UserRepo struct {
	mu    sync.Mutex
	Users map[string]*models.User

	// error injection
	GetErr    error
	CreateErr error
	UpsertErr error
	UpdateErr error
	DeleteErr error
	ListErr   error

	// per-id update failures for batch tests
	UpdateErrFor map[string]error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: make(map[string]*models.User)}
}

func (m *UserRepo) UpsertUser(ctx context.Context, u *models.User) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.Users[u.ID]; ok {
		existing.Name = u.Name
		existing.Email = u.Email
		existing.Phone = u.Phone
		return nil
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[u.ID]; ok {
		return apperror.Conflict("user", u.ID)
	}
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *UserRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepo) UpdateUserName(ctx context.Context, id, name string) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if err, ok := m.UpdateErrFor[id]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Users[id]; ok {
		u.Name = name
	}
	return nil
}

func (m *UserRepo) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Users, id)
	return nil
}

func (m *UserRepo) ListUsersByName(ctx context.Context, name string) ([]models.User, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.User
	for _, u := range m.Users {
		if u.Name == name {
			out = append(out, *u)
		}
	}
	return out, nil
}

// Resolver is a canned usersync.NameResolver. Names maps user ids to
// resolved names; everything else resolves to Unknown.
type Resolver struct {
	Names map[string]string
	Calls []string
}

func (r *Resolver) UserName(ctx context.Context, id string) string {
	r.Calls = append(r.Calls, id)
	if name, ok := r.Names[id]; ok {
		return name
	}
	return models.UnknownName
}

// ProjectRepo is an in-memory repository.ProjectRepo for tests.
type ProjectRepo struct {
	mu       sync.Mutex
	Projects []models.Project
	nextID   int64

	CreateErr error
	ListErr   error
}

func (m *ProjectRepo) CreateProject(ctx context.Context, p *models.Project) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *p
	cp.ID = m.nextID
	m.Projects = append(m.Projects, cp)
	return cp.ID, nil
}

func (m *ProjectRepo) ListProjects(ctx context.Context) ([]models.Project, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Project, len(m.Projects))
	copy(out, m.Projects)
	return out, nil
}

func (m *ProjectRepo) DeleteAllProjects(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.Projects))
	m.Projects = nil
	return n, nil
}

// LikeRepo is an in-memory repository.LikeRepo enforcing the
// one-like-per-user-per-project rule.
type LikeRepo struct {
	mu     sync.Mutex
	Likes  []models.Like
	nextID int64
}

func (m *LikeRepo) CreateLike(ctx context.Context, l *models.Like) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Likes {
		if existing.UserID == l.UserID && existing.ProjectID == l.ProjectID {
			return 0, apperror.Conflict("like", fmt.Sprintf("user %s already liked project %d", l.UserID, l.ProjectID))
		}
	}

	m.nextID++
	cp := *l
	cp.ID = m.nextID
	m.Likes = append(m.Likes, cp)
	return cp.ID, nil
}

// CommentRepo is an in-memory repository.CommentRepo for tests.
type CommentRepo struct {
	mu       sync.Mutex
	Comments []models.Comment
	nextID   int64
}

func (m *CommentRepo) CreateComment(ctx context.Context, c *models.Comment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	cp := *c
	cp.ID = m.nextID
	m.Comments = append(m.Comments, cp)
	return cp.ID, nil
}

func (m *CommentRepo) ListCommentsByProject(ctx context.Context, projectID int64) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Comment
	for _, c := range m.Comments {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}
