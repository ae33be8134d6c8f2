package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com/v1"
	defaultClaudeModel   = "claude-3-opus-20240229"
	anthropicVersion     = "2023-06-01"
)

// ClaudeClient talks to the Anthropic messages API directly.
type ClaudeClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *zap.Logger
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClaudeClient(cfg Config, logger *zap.Logger) *ClaudeClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultClaudeBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultClaudeModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaudeClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *ClaudeClient) Provider() string {
	return "claude"
}

func (c *ClaudeClient) Generate(ctx context.Context, req usecase.GenerationRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	payload, err := json.Marshal(claudeRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Messages:    []claudeMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out claudeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("claude API error (status %d): %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("claude API error (status %d): %s", resp.StatusCode, msg)
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	c.logger.Debug("✅ Claude completion",
		zap.String("model", c.model), zap.String("stop_reason", out.StopReason),
		zap.Duration("duration", time.Since(start)))
	return sb.String(), nil
}
