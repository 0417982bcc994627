package embedder

import (
	"fmt"
	"strings"
)

// Config holds embedder configuration
type Config struct {
	Provider  string  // openai, ollama, local or none
	APIKey    string  // openai only
	BaseURL   string  // Override the provider endpoint
	Model     string  // Override the provider's default model
	Dimension int     // Override the provider's default dimension
	CacheSize int     // LRU entries; 0 disables caching
	RateLimit float64 // Requests per second for remote providers; 0 disables
	Burst     int
}

// New creates an embedder from explicit configuration. Remote providers are
// rate limited, and every provider is cached when CacheSize > 0. Provider
// "none" (or empty) returns ErrNoProviderEnabled so callers can run without
// semantic search.
func New(cfg Config) (Embedder, error) {
	var (
		e   Embedder
		err error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		var p *OpenAIProvider
		p, err = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Dimension)
		if err == nil {
			e = WithRateLimit(p, cfg.RateLimit, cfg.Burst)
		}
	case ProviderOllama:
		var p *OllamaProvider
		p, err = NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Dimension)
		if err == nil {
			e = WithRateLimit(p, cfg.RateLimit, cfg.Burst)
		}
	case ProviderLocal:
		e = NewLocalProvider(cfg.Dimension)
	case ProviderNone, "":
		return nil, ErrNoProviderEnabled
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize > 0 {
		e = WithCache(e, NewCache(cfg.CacheSize))
	}
	return e, nil
}
