package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/mealboard/internal/config"
	"go.uber.org/zap"
)

// NewBlobStore builds a blob store using mode local|s3|auto.
// Local mode returns a nil store; exports are then served by the API itself.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger *zap.Logger) (Store, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("blob")

	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		log.Info("blob mode selected", zap.String("mode", appcfg.BlobModeLocal), zap.String("reason", "forced"))
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			fields := []zap.Field{zap.String("code", code), zap.String("detail", msg), zap.String("summary", cfg.S3.DiagnosticsSummary())}
			if level == "WARN" {
				log.Warn("s3 diagnostics", fields...)
			} else {
				log.Info("s3 diagnostics", fields...)
			}
			log.Info("blob mode selected", zap.String("mode", appcfg.BlobModeLocal), zap.String("reason", "auto, S3 not configured"))
			return nil, appcfg.BlobModeLocal, nil
		}

		log.Info("s3 diagnostics", zap.String("code", "s3_ready"), zap.String("summary", cfg.S3.DiagnosticsSummary()))
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Warn("s3 init failed, falling back to local", zap.Error(err))
			return nil, appcfg.BlobModeLocal, nil
		}

		log.Info("blob mode selected", zap.String("mode", appcfg.BlobModeS3), zap.String("reason", "auto, configured"))
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			log.Error("s3 config incomplete",
				zap.String("code", "s3_config_incomplete"),
				zap.Strings("missing", missing),
				zap.String("summary", cfg.S3.DiagnosticsSummary()),
			)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		log.Info("s3 diagnostics", zap.String("code", "s3_ready"), zap.String("summary", cfg.S3.DiagnosticsSummary()))
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Error("s3 init failed", zap.Error(err))
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		log.Info("blob mode selected", zap.String("mode", appcfg.BlobModeS3), zap.String("reason", "forced"))
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}
