// Package summary produces the prose recommendation that accompanies search
// results. Generation is delegated to a chat model that only sees evidence
// the ranking engine already selected; when the model is missing or fails,
// callers fall back to a fixed message.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// Fallback is returned in place of a summary when generation is unavailable.
const Fallback = "I found relevant content for your query. Please check the video recommendations below for detailed information."

// Defaults for the OpenRouter-compatible chat endpoint.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "openai/gpt-3.5-turbo"
	DefaultMaxTokens   = 400
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second

	systemPrompt = "You are a helpful health assistant that answers using content from Andrew Huberman's podcast."
)

// ErrEmptyResponse is returned when the model produces no text.
var ErrEmptyResponse = errors.New("model returned no content")

// Summarizer turns ranked results into a recommendation.
type Summarizer interface {
	Summarize(ctx context.Context, query string, results []types.SearchResult) (string, error)
}

// Config configures an LLM summarizer.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// LLMSummarizer generates summaries with a langchaingo chat model.
type LLMSummarizer struct {
	model  llms.Model
	config Config
	logger *slog.Logger
}

// NewOpenRouter creates a summarizer backed by an OpenAI-compatible chat
// endpoint (OpenRouter by default). An empty API key is an error so callers
// can decide to run without generation.
func NewOpenRouter(cfg Config, logger *slog.Logger) (*LLMSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for summary model", types.ErrUpstreamUnavailable)
	}
	cfg.applyDefaults()

	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}
	return New(client, cfg, logger), nil
}

// New wraps an existing model.
func New(model llms.Model, cfg Config, logger *slog.Logger) *LLMSummarizer {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMSummarizer{
		model:  model,
		config: cfg,
		logger: logger.With("component", "summary"),
	}
}

// Summarize asks the model for a recommendation grounded in results.
func (s *LLMSummarizer) Summarize(ctx context.Context, query string, results []types.SearchResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(BuildPrompt(query, results))},
		},
	}

	start := time.Now()
	response, err := s.model.GenerateContent(ctx, content,
		llms.WithTemperature(s.config.Temperature),
		llms.WithMaxTokens(s.config.MaxTokens),
	)
	if err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, err)
	}
	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}

	s.logger.Debug("summary generated", "results", len(results), "duration", time.Since(start))
	return strings.TrimSpace(response.Choices[0].Content), nil
}

// BuildPrompt renders the user prompt: the question followed by each
// result's title, evidence and timestamp.
func BuildPrompt(query string, results []types.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", query)
	b.WriteString("Relevant Huberman Lab content:\n")
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\nVideo: %s\nContext: %s\nTimestamp: %s\n", r.Title, r.Context, r.Timestamp)
	}
	b.WriteString(`
Using only this content, write a concise answer (200-300 words) that:
1. Addresses the question directly
2. Cites the specific episodes above
3. Gives practical, science-based protocols
4. Points the reader to the videos at the listed timestamps
5. States that this is educational content, not medical advice
`)
	return b.String()
}

// Generate returns the model's summary, or Fallback when summarizer is nil
// or fails. The error, if any, is returned alongside the fallback text.
func Generate(ctx context.Context, summarizer Summarizer, query string, results []types.SearchResult) (string, error) {
	if summarizer == nil {
		return Fallback, nil
	}
	text, err := summarizer.Summarize(ctx, query, results)
	if err != nil {
		return Fallback, err
	}
	return text, nil
}
