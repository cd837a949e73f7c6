package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/usersync"
)

type UsersHandler struct {
	engine   *usersync.Engine
	validate *validator.Validate
}

func NewUsersHandler(engine *usersync.Engine) *UsersHandler {
	return &UsersHandler{engine: engine, validate: validator.New()}
}

type createUserRequest struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Create registers a user by identity-provider id, resolving the
// display name through the provider API. Replays of an existing id
// answer 200 with the stored row instead of failing.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON data"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "missing or invalid required fields"))
		return
	}

	user, created, err := h.engine.EnsureUser(r.Context(), req.ID, req.Email, "")
	if err != nil {
		logger.Error("create user failed", slog.String("user_id", req.ID), slog.Any("err", err))
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, user, status)
}
