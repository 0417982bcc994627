// Package config loads service configuration from the environment.
//
// Every setting has a default so the service starts with no environment at
// all: JSON data under ./data, offline local embeddings, hybrid search and
// no generated summaries (the stock fallback text is used instead).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/internal/index"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
	"github.com/dshills/huberman-health-mcp/internal/summary"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// Environment variables
const (
	EnvDataDir           = "HUBERMAN_DATA_DIR"
	EnvMergedPath        = "HUBERMAN_MERGED_PATH"
	EnvVideosPath        = "HUBERMAN_VIDEOS_PATH"
	EnvDatabase          = "HUBERMAN_DB"
	EnvEmbeddingProvider = "HUBERMAN_EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "HUBERMAN_EMBEDDING_MODEL"
	EnvEmbeddingURL      = "HUBERMAN_EMBEDDING_URL"
	EnvEmbeddingRPS      = "HUBERMAN_EMBEDDING_RPS"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvIndexWorkers      = "HUBERMAN_INDEX_WORKERS"
	EnvSearchMode        = "HUBERMAN_SEARCH_MODE"
	EnvTopK              = "HUBERMAN_TOP_K"
	EnvSemanticWeight    = "HUBERMAN_SEMANTIC_WEIGHT"
	EnvOpenRouterAPIKey  = "OPENROUTER_API_KEY"
	EnvSummaryModel      = "HUBERMAN_SUMMARY_MODEL"
	EnvSummaryURL        = "HUBERMAN_SUMMARY_URL"
	EnvHTTPAddr          = "HUBERMAN_HTTP_ADDR"
	EnvCORSOrigin        = "HUBERMAN_CORS_ORIGIN"
	EnvLogLevel          = "HUBERMAN_LOG_LEVEL"
)

// Config is the full service configuration.
type Config struct {
	// Corpus
	DataDir      string
	MergedPath   string
	VideosPath   string
	DatabasePath string // When set, the corpus loads from SQLite instead of JSON

	// Embedding
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingURL      string
	EmbeddingAPIKey   string
	EmbeddingRPS      float64
	IndexWorkers      int
	IndexBatchSize    int

	// Ranking
	SearchMode       string
	TopKVector       int
	SegmentsPerVideo int
	SemanticWeight   float64

	// Summary
	SummaryAPIKey  string
	SummaryModel   string
	SummaryURL     string
	SummaryTimeout time.Duration

	// Serving
	HTTPAddr   string
	CORSOrigin string
	LogLevel   string
}

// Default returns the built-in configuration.
func Default() Config {
	rc := ranker.DefaultConfig()
	return Config{
		DataDir:           "data",
		EmbeddingProvider: embedder.ProviderLocal,
		IndexBatchSize:    embedder.DefaultBatchSize,
		SearchMode:        string(rc.DefaultMode),
		TopKVector:        rc.TopKVector,
		SegmentsPerVideo:  rc.SegmentsPerVideo,
		SemanticWeight:    rc.Weights.Semantic,
		SummaryModel:      summary.DefaultModel,
		SummaryURL:        summary.DefaultBaseURL,
		SummaryTimeout:    summary.DefaultTimeout,
		HTTPAddr:          ":8000",
		CORSOrigin:        "*",
		LogLevel:          "info",
	}
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads configuration through lookup, starting from Default.
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	env := envReader{lookup: lookup}

	cfg.DataDir = env.str(EnvDataDir, cfg.DataDir)
	cfg.MergedPath = env.str(EnvMergedPath, cfg.MergedPath)
	cfg.VideosPath = env.str(EnvVideosPath, cfg.VideosPath)
	cfg.DatabasePath = env.str(EnvDatabase, cfg.DatabasePath)

	cfg.EmbeddingProvider = env.str(EnvEmbeddingProvider, cfg.EmbeddingProvider)
	cfg.EmbeddingModel = env.str(EnvEmbeddingModel, cfg.EmbeddingModel)
	cfg.EmbeddingURL = env.str(EnvEmbeddingURL, cfg.EmbeddingURL)
	cfg.EmbeddingAPIKey = env.str(EnvOpenAIAPIKey, cfg.EmbeddingAPIKey)
	cfg.EmbeddingRPS = env.number(EnvEmbeddingRPS, cfg.EmbeddingRPS)
	cfg.IndexWorkers = env.integer(EnvIndexWorkers, cfg.IndexWorkers)

	cfg.SearchMode = env.str(EnvSearchMode, cfg.SearchMode)
	cfg.TopKVector = env.integer(EnvTopK, cfg.TopKVector)
	cfg.SemanticWeight = env.number(EnvSemanticWeight, cfg.SemanticWeight)

	cfg.SummaryAPIKey = env.str(EnvOpenRouterAPIKey, cfg.SummaryAPIKey)
	cfg.SummaryModel = env.str(EnvSummaryModel, cfg.SummaryModel)
	cfg.SummaryURL = env.str(EnvSummaryURL, cfg.SummaryURL)

	cfg.HTTPAddr = env.str(EnvHTTPAddr, cfg.HTTPAddr)
	cfg.CORSOrigin = env.str(EnvCORSOrigin, cfg.CORSOrigin)
	cfg.LogLevel = env.str(EnvLogLevel, cfg.LogLevel)

	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

// Validate rejects impossible settings.
func (c Config) Validate() error {
	if _, err := ranker.ParseSearchMode(c.SearchMode); err != nil {
		return err
	}
	if err := c.RankerConfig().Validate(); err != nil {
		return err
	}
	if c.DatabasePath == "" && c.MergedFile() == "" {
		return fmt.Errorf("%w: no corpus source configured", types.ErrInvalidArgument)
	}
	if c.EmbeddingRPS < 0 {
		return fmt.Errorf("%w: embedding rate must be >= 0", types.ErrInvalidArgument)
	}
	return nil
}

// MergedFile returns the transcript file path, defaulting into DataDir.
func (c Config) MergedFile() string {
	if c.MergedPath != "" {
		return c.MergedPath
	}
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, "merged.json")
}

// VideosFile returns the metadata file path, defaulting into DataDir. An
// empty result means no metadata file.
func (c Config) VideosFile() string {
	if c.VideosPath != "" {
		return c.VideosPath
	}
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, "videos.json")
}

// SemanticEnabled reports whether an embedding provider is configured.
func (c Config) SemanticEnabled() bool {
	p := strings.ToLower(strings.TrimSpace(c.EmbeddingProvider))
	return p != "" && p != embedder.ProviderNone
}

// EmbedderConfig derives the embedder configuration.
func (c Config) EmbedderConfig() embedder.Config {
	return embedder.Config{
		Provider:  c.EmbeddingProvider,
		APIKey:    c.EmbeddingAPIKey,
		BaseURL:   c.EmbeddingURL,
		Model:     c.EmbeddingModel,
		CacheSize: embedder.DefaultCacheSize,
		RateLimit: c.EmbeddingRPS,
		Burst:     max(1, c.IndexWorkers),
	}
}

// IndexConfig derives the index build configuration.
func (c Config) IndexConfig() *index.Config {
	return &index.Config{BatchSize: c.IndexBatchSize, Workers: c.IndexWorkers}
}

// RankerConfig derives the engine configuration.
func (c Config) RankerConfig() ranker.Config {
	rc := ranker.DefaultConfig()
	if mode, err := ranker.ParseSearchMode(c.SearchMode); err == nil {
		rc.DefaultMode = mode
	}
	rc.TopKVector = c.TopKVector
	rc.SegmentsPerVideo = c.SegmentsPerVideo
	rc.Weights.Semantic = c.SemanticWeight
	return rc
}

// SummaryConfig derives the summarizer configuration.
func (c Config) SummaryConfig() summary.Config {
	return summary.Config{
		BaseURL: c.SummaryURL,
		APIKey:  c.SummaryAPIKey,
		Model:   c.SummaryModel,
		Timeout: c.SummaryTimeout,
	}
}

// envReader reads typed values, keeping the first parse error.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e *envReader) integer(key string, fallback int) int {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.fail(key, raw)
		return fallback
	}
	return v
}

func (e *envReader) number(key string, fallback float64) float64 {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.fail(key, raw)
		return fallback
	}
	return v
}

func (e *envReader) fail(key, raw string) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s=%q", types.ErrInvalidArgument, key, raw)
	}
}
