package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fdg312/mealboard/internal/config"
	"github.com/fdg312/mealboard/internal/dbmigrate"
	"github.com/fdg312/mealboard/internal/logging"
	"github.com/fdg312/mealboard/migrations"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/migrate [up|status|down]")
		os.Exit(2)
	}

	command := os.Args[1]
	switch command {
	case "up", "status", "down":
	default:
		fmt.Fprintf(os.Stderr, "unsupported command %q (allowed: up, status, down)\n", command)
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	if sel.Warning != "" {
		logger.Warn("migrate", zap.String("warning", sel.Warning))
	}
	logger.Info("migrate", zap.String("command", command), zap.String("using", sel.Source))

	if err := dbmigrate.Run(context.Background(), command, sel.URL, migrations.FS, ""); err != nil {
		logger.Fatal("migrate failed", zap.String("command", command), zap.Error(err))
	}

	logger.Info("migrate completed", zap.String("command", command))
}
