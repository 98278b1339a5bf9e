// Command migrate runs database migrations.
//
// Usage:
//
//	go run ./cmd/migrate up       # apply all pending migrations
//	go run ./cmd/migrate down     # roll back the last migration
//	go run ./cmd/migrate status   # show migration status
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/unimarket/internal/config"
	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate <command> [args]")
		fmt.Println("Commands: up, down, status, version, redo, up-to <version>, down-to <version>")
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.App.Env, cfg.App.LogLevel))

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db, os.Args[1], os.Args[2:]...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
