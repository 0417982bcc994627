package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(nil))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data/merged.json", cfg.MergedFile())
	assert.Equal(t, "data/videos.json", cfg.VideosFile())
	assert.True(t, cfg.SemanticEnabled())
	assert.Equal(t, ":8000", cfg.HTTPAddr)

	rc := cfg.RankerConfig()
	assert.Equal(t, ranker.DefaultConfig(), rc)
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{
		EnvDataDir:           "/srv/huberman",
		EnvVideosPath:        "/tmp/videos.json",
		EnvEmbeddingProvider: "none",
		EnvSearchMode:        "keyword",
		EnvTopK:              "30",
		EnvSemanticWeight:    "25.5",
		EnvOpenRouterAPIKey:  "sk-or",
		EnvEmbeddingRPS:      "2.5",
		EnvHTTPAddr:          "  :9000 ",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/srv/huberman/merged.json", cfg.MergedFile())
	assert.Equal(t, "/tmp/videos.json", cfg.VideosFile())
	assert.False(t, cfg.SemanticEnabled())
	assert.Equal(t, ":9000", cfg.HTTPAddr)

	rc := cfg.RankerConfig()
	assert.Equal(t, ranker.SearchModeKeyword, rc.DefaultMode)
	assert.Equal(t, 30, rc.TopKVector)
	assert.Equal(t, 25.5, rc.Weights.Semantic)

	assert.Equal(t, "sk-or", cfg.SummaryConfig().APIKey)

	ec := cfg.EmbedderConfig()
	assert.Equal(t, embedder.ProviderNone, ec.Provider)
	assert.Equal(t, 2.5, ec.RateLimit)
}

func TestLoadFromInvalidNumbers(t *testing.T) {
	_, err := LoadFrom(mapLookup(map[string]string{EnvTopK: "many"}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = LoadFrom(mapLookup(map[string]string{EnvSemanticWeight: "heavy"}))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.SearchMode = "vector" }},
		{"zero top-k", func(c *Config) { c.TopKVector = 0 }},
		{"no corpus", func(c *Config) { c.DataDir = "" }},
		{"negative rate", func(c *Config) { c.EmbeddingRPS = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), types.ErrInvalidArgument)
		})
	}

	cfg := Default()
	cfg.DataDir = ""
	cfg.DatabasePath = "corpus.db"
	assert.NoError(t, cfg.Validate())
}
