package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lostconnect/backend/internal/usersync"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler issues tokens for the administrative routes and runs
// the name backfill.
type AdminHandler struct {
	engine        *usersync.Engine
	adminEmail    string
	passwordHash  string
	jwtSecret     string
	tokenDuration time.Duration
}

func NewAdminHandler(engine *usersync.Engine, adminEmail, passwordHash, jwtSecret string, tokenDuration time.Duration) *AdminHandler {
	return &AdminHandler{
		engine:        engine,
		adminEmail:    adminEmail,
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
	}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AdminHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	if h.adminEmail == "" || h.passwordHash == "" {
		http.Error(w, "Admin access not configured", http.StatusUnauthorized)
		return
	}
	if req.Email != h.adminEmail {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": req.Email,
		"exp":   time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

// RunBackfill triggers a synchronous pass over users still named with
// the Unknown sentinel and reports how many could be resolved.
func (h *AdminHandler) RunBackfill(w http.ResponseWriter, r *http.Request) {
	updated, scanned, err := h.engine.Backfill(r.Context())
	if err != nil {
		logger.Error("backfill failed", slog.Any("err", err))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Backfill complete: updated %d of %d user(s)\n", updated, scanned)
}
