// Command migrate runs goose against the application database using the
// migrations embedded in the binary.
//
//	migrate up
//	migrate down
//	migrate status
//	migrate up-to 3
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(logger, os.Args[1:]); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing goose command, usage: migrate [up|down|status|redo|up-to N|down-to N]")
	}
	command, rest := args[0], args[1:]

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.URL, logger, database.PoolOptions{MaxRetries: 3})
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	logger.Info("running goose command", "command", command, "args", rest)
	return database.RunMigrations(ctx, db, command, rest...)
}
