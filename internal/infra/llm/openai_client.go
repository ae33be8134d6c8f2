package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

// OpenAIClient wraps the OpenAI chat completion API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// Config for both providers.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func NewOpenAIClient(cfg Config, logger *zap.Logger) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

func (c *OpenAIClient) Provider() string {
	return "openai"
}

func (c *OpenAIClient) Generate(ctx context.Context, req usecase.GenerationRequest) (string, error) {
	c.logger.Debug("🤖 OpenAI chat", zap.String("model", c.model), zap.Int("prompt_len", len(req.Prompt)))

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("❌ OpenAI chat failed", zap.Error(err), zap.Duration("duration", duration))
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	c.logger.Debug("✅ OpenAI chat completed",
		zap.Int("tokens", resp.Usage.TotalTokens), zap.Duration("duration", duration))
	return resp.Choices[0].Message.Content, nil
}
