package api

import (
	"github.com/gorilla/mux"
	"github.com/lostconnect/backend/internal/config"
	"github.com/lostconnect/backend/internal/db"
	"github.com/lostconnect/backend/internal/repository/sqlite"
	"github.com/lostconnect/backend/internal/usersync"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, resolver usersync.NameResolver) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware(cfg.CORSOrigins))
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	// Reconciliation engine
	engine := usersync.New(repo, resolver, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	webhookHandler := NewWebhookHandler(engine, cfg.WebhookSecret)
	projectsHandler := NewProjectsHandler(repo, engine)
	usersHandler := NewUsersHandler(engine)
	likesHandler := NewLikesHandler(repo)
	commentsHandler := NewCommentsHandler(repo)
	adminHandler := NewAdminHandler(engine, cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenDuration)

	// Open endpoints
	r.HandleFunc("/", systemHandler.LivenessHandler).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/webhook", webhookHandler.Receive).Methods("POST")
	r.HandleFunc("/projects", projectsHandler.List).Methods("GET")
	r.HandleFunc("/projects", projectsHandler.Create).Methods("POST")
	r.HandleFunc("/projects/{id:[0-9]+}/like", likesHandler.Create).Methods("POST")
	r.HandleFunc("/projects/{id:[0-9]+}/comments", commentsHandler.Create).Methods("POST")
	r.HandleFunc("/projects/{id:[0-9]+}/comments", commentsHandler.ListByProject).Methods("GET")
	r.HandleFunc("/users", usersHandler.Create).Methods("POST")
	r.HandleFunc("/admin/signin", adminHandler.Signin).Methods("POST")

	// Administrative routes, JWT-protected
	admin := r.NewRoute().Subrouter()
	admin.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	admin.HandleFunc("/projects/delete-all", projectsHandler.DeleteAll).Methods("POST")
	admin.HandleFunc("/run-backfill", adminHandler.RunBackfill).Methods("GET")

	return r
}
