package assistant

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/huberman-health-mcp/internal/config"
	"github.com/dshills/huberman-health-mcp/internal/corpus"
	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
	"github.com/dshills/huberman-health-mcp/internal/summary"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

const mergedFixture = `[
  {"id": "a", "title": "Improving Sleep Quality", "url": "https://www.youtube.com/watch?v=a",
   "transcript": [
     {"text": "circadian rhythm basics", "start": "10.0"},
     {"text": "morning routine details", "start": 65}
   ]},
  {"id": "b", "title": "Strength Training", "url": "https://www.youtube.com/watch?v=b",
   "transcript": [
     {"text": "sleep helps you recover", "start": 30},
     {"text": "progressive overload explained", "start": "not-a-number"}
   ]},
  {"id": "c", "title": "Guest Episode", "url": "https://www.youtube.com/watch?v=c",
   "transcript": [{"text": "welcome to the podcast everyone", "start": 0}]}
]`

const videosFixture = `[
  {"id": "a", "title": "Improving Sleep Quality", "url": "https://www.youtube.com/watch?v=a", "description": "Tools for better sleep."}
]`

// writeCorpus writes the JSON fixtures into a temp data directory.
func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, corpus.MergedFile), []byte(mergedFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, corpus.VideosFile), []byte(videosFixture), 0o644))
	return dir
}

func testConfig(t *testing.T, provider string) config.Config {
	cfg := config.Default()
	cfg.DataDir = writeCorpus(t)
	cfg.EmbeddingProvider = provider
	return cfg
}

func ids(results []types.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.VideoID
	}
	return out
}

func TestNewKeywordOnly(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, embedder.ProviderNone), nil)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	st := a.Health()
	assert.Equal(t, StatusHealthy, st.Status)
	assert.Equal(t, 3, st.VideosLoaded)
	assert.Equal(t, 5, st.SegmentsLoaded)
	assert.False(t, st.SemanticIndexReady)
	assert.False(t, st.SummaryEnabled)

	ans, err := a.Search(context.Background(), "sleep", DefaultMaxResults)
	require.NoError(t, err)
	assert.Equal(t, "sleep", ans.Query)
	assert.Equal(t, []string{"a", "b"}, ids(ans.Videos))
	assert.Equal(t, 2, ans.TotalResults)
	assert.Equal(t, string(ranker.SearchModeKeyword), ans.SearchType)
	assert.Equal(t, summary.Fallback, ans.Recommendation)

	top := ans.Videos[0]
	assert.Equal(t, 18.0, top.RelevanceScore)
	assert.Equal(t, "0:10", top.Timestamp)
	assert.Equal(t, "circadian rhythm basics", top.Context)
	assert.Equal(t, "Tools for better sleep.", top.Description)
}

func TestNewWithLocalEmbedder(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, embedder.ProviderLocal), nil)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	st := a.Health()
	assert.True(t, st.SemanticIndexReady)
	assert.Equal(t, 5, st.SegmentsIndexed)

	ans, err := a.Search(context.Background(), "sleep", 3)
	require.NoError(t, err)
	assert.Equal(t, string(ranker.SearchModeHybrid), ans.SearchType)
	assert.NotEmpty(t, ans.Videos)
	assert.LessOrEqual(t, len(ans.Videos), 3)
	assert.Contains(t, ids(ans.Videos), "a")
	for i := 1; i < len(ans.Videos); i++ {
		assert.GreaterOrEqual(t, ans.Videos[i-1].RelevanceScore, ans.Videos[i].RelevanceScore)
	}
}

func TestNewMissingCorpus(t *testing.T) {
	cfg := config.Default()
	cfg.MergedPath = filepath.Join(t.TempDir(), "missing.json")
	cfg.EmbeddingProvider = embedder.ProviderLocal

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	st := a.Health()
	assert.Equal(t, StatusDegraded, st.Status)
	assert.False(t, st.SemanticIndexReady)
	assert.NotEmpty(t, st.Warnings)
	assert.Nil(t, a.Store())

	_, err = a.Search(context.Background(), "sleep", 3)
	assert.ErrorIs(t, err, types.ErrDataUnavailable)

	_, _, err = a.Video("a")
	assert.ErrorIs(t, err, types.ErrDataUnavailable)

	_, err = a.TopicCounts()
	assert.ErrorIs(t, err, types.ErrDataUnavailable)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SearchMode = "fuzzy"
	_, err := New(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestNewFromSQLite(t *testing.T) {
	ctx := context.Background()
	dir := writeCorpus(t)
	store, err := corpus.LoadJSON(filepath.Join(dir, corpus.MergedFile), filepath.Join(dir, corpus.VideosFile))
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "corpus.db")
	db, err := corpus.OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Import(ctx, store, dir))
	require.NoError(t, db.Close())

	cfg := config.Default()
	cfg.DataDir = ""
	cfg.DatabasePath = dbPath
	cfg.EmbeddingProvider = embedder.ProviderNone

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Health().VideosLoaded)

	ans, err := a.Search(ctx, "sleep", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(ans.Videos))
}

func TestSearchNoMatch(t *testing.T) {
	for _, provider := range []string{embedder.ProviderNone, embedder.ProviderLocal} {
		t.Run(provider, func(t *testing.T) {
			a, err := New(context.Background(), testConfig(t, provider), nil)
			require.NoError(t, err)
			defer func() { _ = a.Close() }()

			_, err = a.Search(context.Background(), "quantum chromodynamics", 3)
			assert.ErrorIs(t, err, types.ErrNoMatch)

			_, err = a.Search(context.Background(), "   ", 3)
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
		})
	}
}

func TestSearchRejectsResultCapBelowOne(t *testing.T) {
	a := NewFromParts(partsStore(), nil, nil, ranker.DefaultConfig(), nil)

	for _, n := range []int{0, -1} {
		_, err := a.Search(context.Background(), "sleep", n)
		assert.ErrorIs(t, err, types.ErrInvalidArgument, "max results %d", n)
	}

	ans, err := a.Search(context.Background(), "sleep", 1)
	require.NoError(t, err)
	assert.Len(t, ans.Videos, 1)
}

func TestComponentLoggersAreNotNested(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a, err := New(context.Background(), testConfig(t, embedder.ProviderLocal), logger)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	out := buf.String()
	assert.Contains(t, out, "component=index")
	assert.Contains(t, out, "component=assistant")
	assert.NotContains(t, out, "component=assistant component=")
}

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(ctx context.Context, query string, results []types.SearchResult) (string, error) {
	return s.text, s.err
}

func partsStore() *corpus.Store {
	return corpus.New([]corpus.Entry{
		{
			Video: types.Video{ID: "a", Title: "Improving Sleep Quality"},
			Transcript: []types.TranscriptSegment{
				{Text: "circadian rhythm basics", Start: 10},
			},
		},
	})
}

func TestSearchSummary(t *testing.T) {
	tests := []struct {
		name       string
		summarizer summary.Summarizer
		want       string
	}{
		{"generated", stubSummarizer{text: "Get morning light."}, "Get morning light."},
		{"failed", stubSummarizer{err: errors.New("rate limited")}, summary.Fallback},
		{"absent", nil, summary.Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewFromParts(partsStore(), nil, tt.summarizer, ranker.DefaultConfig(), nil)
			ans, err := a.Search(context.Background(), "sleep", 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ans.Recommendation)
			assert.Equal(t, tt.summarizer != nil, a.Health().SummaryEnabled)
		})
	}
}

func TestVideo(t *testing.T) {
	a := NewFromParts(partsStore(), nil, nil, ranker.DefaultConfig(), nil)

	v, transcript, err := a.Video("a")
	require.NoError(t, err)
	assert.Equal(t, "Improving Sleep Quality", v.Title)
	require.Len(t, transcript, 1)
	assert.Equal(t, "circadian rhythm basics", transcript[0].Text)

	_, _, err = a.Video("zzz")
	assert.ErrorIs(t, err, types.ErrNoMatch)
}

func TestTopicCounts(t *testing.T) {
	a := NewFromParts(partsStore(), nil, nil, ranker.DefaultConfig(), nil)
	counts, err := a.TopicCounts()
	require.NoError(t, err)
	require.NotEmpty(t, counts)
	assert.Equal(t, "sleep", counts[0].Topic)
	assert.Equal(t, 1, counts[0].Count)
}

func TestRankKeywordMode(t *testing.T) {
	a := NewFromParts(partsStore(), nil, nil, ranker.DefaultConfig(), nil)
	resp, err := a.Rank(context.Background(), ranker.SearchRequest{Query: "sleep", Limit: 5, Mode: ranker.SearchModeKeyword})
	require.NoError(t, err)
	assert.Equal(t, ranker.SearchModeKeyword, resp.SearchMode)
	assert.Contains(t, resp.Topics, "sleep")

	_, err = a.Rank(context.Background(), ranker.SearchRequest{Query: "sleep", Limit: 5, Mode: ranker.SearchModeSemantic})
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
}
