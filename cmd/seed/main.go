package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/snnyvrz/bookcatalog/internal/config"
	"github.com/snnyvrz/bookcatalog/internal/db"
	"github.com/snnyvrz/bookcatalog/internal/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("connect", "err", err)
		os.Exit(1)
	}

	if err := db.Migrate(database); err != nil {
		slog.Error("migrate", "err", err)
		os.Exit(1)
	}

	if err := db.Seed(ctx, database); err != nil {
		slog.Error("seed", "err", err)
		os.Exit(1)
	}
}
