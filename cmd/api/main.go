package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fdg312/mealboard/internal/config"
	"github.com/fdg312/mealboard/internal/dbmigrate"
	"github.com/fdg312/mealboard/internal/httpserver"
	"github.com/fdg312/mealboard/internal/jobs"
	"github.com/fdg312/mealboard/internal/logging"
	"github.com/fdg312/mealboard/migrations"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings {
		logger.Warn("config", zap.String("warning", w))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logStartupSummary(logger, cfg)

	if cfg.RunMigrationsOnStartup {
		sel, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			logger.Fatal("startup migrations", zap.Error(err))
		}

		logger.Info("startup migrations", zap.String("command", "up"), zap.String("using", sel.Source))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err = dbmigrate.Run(ctx, "up", sel.URL, migrations.FS, "")
		cancel()
		if err != nil {
			logger.Fatal("startup migrations failed", zap.Error(err))
		}
		logger.Info("startup migrations completed")
	}

	validateProductionConfig(logger, cfg)

	server := httpserver.New(cfg, logger)
	defer server.Close()

	pruner := jobs.NewPruner(server.PlanService(), cfg.PruneSchedule, logger.Named("jobs"))
	if cfg.PruneSchedule != "" {
		if err := pruner.Start(); err != nil {
			logger.Error("prune job not scheduled", zap.Error(err))
		}
		defer pruner.Stop()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

// logStartupSummary logs the resolved configuration once. Secrets are
// reported only as "set" or "not set".
func logStartupSummary(logger *zap.Logger, cfg *config.Config) {
	fields := []zap.Field{
		zap.String("env", cfg.Env),
		zap.Int("port", cfg.Port),
		zap.String("database", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)),
		zap.String("database_direct", setOrNot(cfg.DatabaseURLDirect)),
		zap.Bool("migrations_on_startup", cfg.RunMigrationsOnStartup),
		zap.String("blob_mode", cfg.Blob.Mode),
		zap.String("share_secret", secretStatus(cfg.ShareSecret, "change_me")),
		zap.String("ai_mode", cfg.AI.Mode),
		zap.String("prune_schedule", nonEmptyOrDash(cfg.PruneSchedule)),
	}
	if cfg.Blob.Mode != config.BlobModeLocal {
		fields = append(fields, zap.String("s3", cfg.Blob.S3.DiagnosticsSummary()))
	}
	switch cfg.AI.Mode {
	case config.AIModeOpenAI:
		fields = append(fields, zap.String("openai_model", cfg.AI.OpenAIModel), zap.String("openai_api_key", setOrNot(cfg.AI.OpenAIAPIKey)))
	case config.AIModeGemini:
		fields = append(fields, zap.String("gemini_model", cfg.AI.GeminiModel), zap.String("gemini_api_key", setOrNot(cfg.AI.GeminiAPIKey)))
	}
	logger.Info("mealboard api", fields...)
}

// validateProductionConfig performs fatal checks that only matter outside local.
func validateProductionConfig(logger *zap.Logger, cfg *config.Config) {
	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			logger.Fatal("BLOB_MODE is 's3' but S3 config is incomplete", zap.String("missing", strings.Join(missing, ", ")))
		}
	}

	if cfg.IsProduction() && cfg.DatabaseURL == "" {
		logger.Fatal("no DATABASE_URL configured", zap.String("env", cfg.Env))
	}
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (default, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
