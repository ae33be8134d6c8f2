package llm

import (
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/config"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

// Select returns the one provider used for the life of the process:
// Claude, then OpenAI, then none (nil means deterministic fallback).
func Select(cfg config.Config, logger *zap.Logger) usecase.TextGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case cfg.ClaudeAPIKey != "":
		logger.Info("text generation provider selected", zap.String("provider", "claude"), zap.String("model", cfg.ClaudeModel))
		return NewClaudeClient(Config{APIKey: cfg.ClaudeAPIKey, Model: cfg.ClaudeModel}, logger)
	case cfg.OpenAIAPIKey != "":
		logger.Info("text generation provider selected", zap.String("provider", "openai"), zap.String("model", cfg.OpenAIModel))
		return NewOpenAIClient(Config{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel}, logger)
	}
	logger.Warn("no text generation provider configured, using plain concatenation")
	return nil
}
