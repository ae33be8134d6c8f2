package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Task is a fixed natural-language template plus the knobs sent with it.
type Task struct {
	Name        string
	System      string
	Render      func(bag EvidenceBag) (string, error)
	MaxTokens   int
	Temperature float32
	// Fallback builds the deterministic text used when no provider is
	// configured. Nil means ConcatenateEvidence.
	Fallback func(bag EvidenceBag) string
}

// Synthesizer turns an evidence bag into prose through the single provider
// selected at start-up. A nil Generator degrades to plain concatenation.
type Synthesizer struct {
	Generator TextGenerator
	Logger    *zap.Logger
	// OnGeneration is a metrics hook: provider, task and outcome.
	OnGeneration func(provider, task, outcome string, took time.Duration)
}

func NewSynthesizer(gen TextGenerator, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{Generator: gen, Logger: logger}
}

func (s *Synthesizer) ProviderName() string {
	if s.Generator == nil {
		return "fallback"
	}
	return s.Generator.Provider()
}

func (s *Synthesizer) Synthesize(ctx context.Context, task Task, bag EvidenceBag) (string, error) {
	if s.Generator == nil {
		fallback := task.Fallback
		if fallback == nil {
			fallback = ConcatenateEvidence
		}
		s.observe("fallback", task.Name, "fallback", 0)
		return fallback(bag), nil
	}

	prompt, err := task.Render(bag)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", task.Name, err)
	}

	provider := s.Generator.Provider()
	start := time.Now()
	out, err := s.Generator.Generate(ctx, GenerationRequest{
		System:      task.System,
		Prompt:      prompt,
		MaxTokens:   task.MaxTokens,
		Temperature: task.Temperature,
	})
	took := time.Since(start)
	if err != nil {
		s.observe(provider, task.Name, "error", took)
		s.Logger.Error("generation failed",
			zap.String("provider", provider), zap.String("task", task.Name), zap.Error(err))
		return "", NewGenerationError(fmt.Sprintf("%s generation failed", provider), err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		s.observe(provider, task.Name, "empty", took)
		return "", NewGenerationError(fmt.Sprintf("%s returned an empty response", provider), nil)
	}

	s.observe(provider, task.Name, "success", took)
	s.Logger.Debug("generation completed",
		zap.String("provider", provider), zap.String("task", task.Name), zap.Duration("took", took))
	return out, nil
}

func (s *Synthesizer) observe(provider, task, outcome string, took time.Duration) {
	if s.OnGeneration != nil {
		s.OnGeneration(provider, task, outcome, took)
	}
}

// ConcatenateEvidence is the deterministic no-provider output: one
// "LABEL: value" block per source, in source order.
func ConcatenateEvidence(bag EvidenceBag) string {
	blocks := make([]string, 0, bag.Len())
	for _, e := range bag.Entries() {
		label := strings.ToUpper(strings.ReplaceAll(e.Label, "_", " "))
		blocks = append(blocks, fmt.Sprintf("%s: %s", label, renderValue(e.Value)))
	}
	return strings.Join(blocks, "\n\n")
}
