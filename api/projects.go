package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/models"
	"github.com/lostconnect/backend/internal/usersync"
	"github.com/lostconnect/backend/pkg/repository"
)

type ProjectsHandler struct {
	projectRepo repository.ProjectRepo
	engine      *usersync.Engine
	validate    *validator.Validate
}

func NewProjectsHandler(pr repository.ProjectRepo, engine *usersync.Engine) *ProjectsHandler {
	return &ProjectsHandler{
		projectRepo: pr,
		engine:      engine,
		validate:    validator.New(),
	}
}

type createProjectRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=human animal plant"`
	Status      string   `json:"status" validate:"required,oneof=lost found"`
	Lat         *float64 `json:"lat" validate:"required"`
	Lng         *float64 `json:"lng" validate:"required"`
	ImageURL    *string  `json:"image_url,omitempty"`
	UserID      string   `json:"user_id" validate:"required"`
	UserEmail   string   `json:"user_email,omitempty" validate:"omitempty,email"`
	UserName    string   `json:"user_name,omitempty"`
}

type createProjectResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Create validates the submission, guarantees a user row exists for
// the submitter, then stores the report.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON data"))
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "missing or invalid required fields"))
		return
	}

	ctx := r.Context()

	if _, _, err := h.engine.EnsureUser(ctx, req.UserID, req.UserEmail, req.UserName); err != nil {
		logger.Error("ensure user failed", slog.String("user_id", req.UserID), slog.Any("err", err))
		writeError(w, err)
		return
	}

	p := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		Lat:         *req.Lat,
		Lng:         *req.Lng,
		ImageURL:    req.ImageURL,
		UserID:      req.UserID,
	}
	id, err := h.projectRepo.CreateProject(ctx, p)
	if err != nil {
		logger.Error("create project failed", slog.Any("err", err))
		writeError(w, err)
		return
	}

	writeJSON(w, createProjectResponse{Message: "Project added successfully", ID: id}, http.StatusCreated)
}

// List returns every project with its embedded creator summary.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectRepo.ListProjects(r.Context())
	if err != nil {
		logger.Error("list projects failed", slog.Any("err", err))
		writeError(w, err)
		return
	}

	if projects == nil {
		projects = []models.Project{}
	}

	writeJSON(w, projects, http.StatusOK)
}

type deleteAllResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// DeleteAll is the destructive administrative bulk delete. The route
// sits behind the admin JWT middleware.
func (h *ProjectsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.projectRepo.DeleteAllProjects(r.Context())
	if err != nil {
		logger.Error("delete all projects failed", slog.Any("err", err))
		writeError(w, err)
		return
	}

	writeJSON(w, deleteAllResponse{Message: "All projects deleted", Deleted: n}, http.StatusOK)
}
