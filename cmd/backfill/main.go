// Command backfill runs a one-shot pass that resolves display names
// for users still carrying the Unknown sentinel. It is the standalone
// equivalent of the /run-backfill endpoint, meant for cron or manual
// invocation.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	migrations "github.com/lostconnect/backend/db"
	"github.com/lostconnect/backend/internal/config"
	"github.com/lostconnect/backend/internal/db"
	"github.com/lostconnect/backend/internal/repository/sqlite"
	"github.com/lostconnect/backend/internal/usersync"
	"github.com/lostconnect/backend/pkg/clerk"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Clerk.SecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY must be set to run the backfill")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	clerk.SetLogger(logger)

	ctx := context.Background()

	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, migrations.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	resolver, err := clerk.NewClient(cfg.Clerk, nil)
	if err != nil {
		log.Fatalf("Failed to create identity client: %v", err)
	}
	defer resolver.Close()

	engine := usersync.New(sqlite.New(conn, logger), resolver, logger)

	updated, scanned, err := engine.Backfill(ctx)
	if err != nil {
		log.Fatalf("Backfill failed after updating %d of %d user(s): %v", updated, scanned, err)
	}

	log.Printf("Backfill complete: updated %d of %d user(s)", updated, scanned)
}
