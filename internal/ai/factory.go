package ai

import (
	"context"

	"github.com/fdg312/mealboard/internal/config"
	"go.uber.org/zap"
)

// NewProvider selects a provider by AI mode. Anything that cannot be built
// falls back to the mock provider.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Mode {
	case config.AIModeOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY missing, using mock AI provider")
			return NewMockProvider()
		}
		logger.Info("ai provider selected", zap.String("mode", config.AIModeOpenAI), zap.String("model", cfg.OpenAIModel))
		return NewOpenAIProvider(cfg)

	case config.AIModeGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY missing, using mock AI provider")
			return NewMockProvider()
		}
		p, err := NewGeminiProvider(ctx, cfg)
		if err != nil {
			logger.Warn("gemini init failed, using mock AI provider", zap.Error(err))
			return NewMockProvider()
		}
		logger.Info("ai provider selected", zap.String("mode", config.AIModeGemini), zap.String("model", cfg.GeminiModel))
		return p

	default:
		logger.Info("ai provider selected", zap.String("mode", config.AIModeMock))
		return NewMockProvider()
	}
}
