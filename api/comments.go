package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/gorilla/mux"
	"github.com/lostconnect/backend/internal/apperror"
	"github.com/lostconnect/backend/internal/models"
	"github.com/lostconnect/backend/pkg/repository"
)

type CommentsHandler struct {
	commentRepo repository.CommentRepo
}

func NewCommentsHandler(cr repository.CommentRepo) *CommentsHandler {
	return &CommentsHandler{commentRepo: cr}
}

type createCommentRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

type createCommentResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || projectID <= 0 {
		writeError(w, apperror.ValidationFailed("id", "invalid project id"))
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON data"))
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.UserID == "" || req.Content == "" {
		writeError(w, apperror.ValidationFailed("body", "user_id and content are required"))
		return
	}

	id, err := h.commentRepo.CreateComment(r.Context(), &models.Comment{
		UserID:    req.UserID,
		ProjectID: projectID,
		Content:   req.Content,
	})
	if err != nil {
		logger.Error("create comment failed", slog.Any("err", err))
		writeError(w, err)
		return
	}

	writeJSON(w, createCommentResponse{Message: "Comment added", ID: id}, http.StatusCreated)
}

func (h *CommentsHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || projectID <= 0 {
		writeError(w, apperror.ValidationFailed("id", "invalid project id"))
		return
	}

	comments, err := h.commentRepo.ListCommentsByProject(r.Context(), projectID)
	if err != nil {
		logger.Error("list comments failed", slog.Any("err", err))
		writeError(w, err)
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	writeJSON(w, comments, http.StatusOK)
}
