package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gorilla/mux"
	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/models"
	"github.com/lostconnect/backend/pkg/repository"
)

type LikesHandler struct {
	likeRepo repository.LikeRepo
}

func NewLikesHandler(lr repository.LikeRepo) *LikesHandler {
	return &LikesHandler{likeRepo: lr}
}

type createLikeRequest struct {
	UserID string `json:"user_id"`
}

type createLikeResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Create records a like. The store's unique (user, project) constraint
// resolves concurrent duplicates; the second writer gets a 409.
func (h *LikesHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || projectID <= 0 {
		writeError(w, apperror.ValidationFailed("id", "invalid project id"))
		return
	}

	var req createLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON data"))
		return
	}
	if req.UserID == "" {
		writeError(w, apperror.ValidationFailed("user_id", "user_id is required"))
		return
	}

	id, err := h.likeRepo.CreateLike(r.Context(), &models.Like{UserID: req.UserID, ProjectID: projectID})
	if err != nil {
		logger.Error("create like failed",
			slog.String("user_id", req.UserID),
			slog.Int64("project_id", projectID),
			slog.Any("err", err),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, createLikeResponse{Message: "Like added", ID: id}, http.StatusCreated)
}
