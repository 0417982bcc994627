package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dshills/huberman-health-mcp/internal/config"
	"github.com/dshills/huberman-health-mcp/internal/corpus"
	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/internal/index"
	"github.com/dshills/huberman-health-mcp/internal/lexicon"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
	"github.com/dshills/huberman-health-mcp/internal/summary"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// DefaultMaxResults is used when a caller does not ask for a result count.
const DefaultMaxResults = 3

// Answer is a ranked result set with its generated recommendation.
type Answer struct {
	Query          string               `json:"query"`
	Recommendation string               `json:"recommendation"`
	Videos         []types.SearchResult `json:"videos"`
	TotalResults   int                  `json:"total_results"`
	SearchType     string               `json:"search_type"`
	Diagnostics    []ranker.Diagnostic  `json:"diagnostics,omitempty"`
}

// Status describes which capabilities came up at start-up.
type Status struct {
	Status             string   `json:"status"`
	VideosLoaded       int      `json:"videos_loaded"`
	SegmentsLoaded     int      `json:"segments_loaded"`
	SemanticIndexReady bool     `json:"semantic_index_ready"`
	SegmentsIndexed    int      `json:"segments_indexed"`
	SummaryEnabled     bool     `json:"summary_enabled"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Status values
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Assistant is the application context: corpus, lexicon, index, engine and
// summarizer built once at start-up.
type Assistant struct {
	store      *corpus.Store
	lexicon    *lexicon.Lexicon
	index      *index.Index
	embedder   embedder.Embedder
	engine     *ranker.Engine
	summarizer summary.Summarizer
	logger     *slog.Logger
	warnings   []string
}

// New loads the corpus, builds the embedding index and prepares the
// summarizer described by cfg. Only an invalid configuration or a cancelled
// context is an error; unavailable capabilities are logged and reported by
// Health.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Assistant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Assistant{
		lexicon: lexicon.Default(),
		logger:  logger.With("component", "assistant"),
	}

	start := time.Now()
	store, err := loadCorpus(ctx, cfg)
	if err != nil {
		a.warn("corpus unavailable", err)
	} else {
		a.store = store
		for _, w := range store.Warnings() {
			a.logger.Warn("corpus entry skipped", "reason", w)
		}
		a.logger.Info("corpus loaded",
			"videos", store.Len(),
			"segments", store.SegmentCount(),
			"duration", time.Since(start))
	}

	if a.store != nil && cfg.SemanticEnabled() {
		if err := a.buildIndex(ctx, cfg, logger); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.warn("semantic search disabled", err)
		}
	}

	if cfg.SummaryAPIKey != "" {
		s, err := summary.NewOpenRouter(cfg.SummaryConfig(), logger)
		if err != nil {
			a.warn("summaries disabled", err)
		} else {
			a.summarizer = s
		}
	}

	a.engine = ranker.New(a.store, a.lexicon, a.index, cfg.RankerConfig(), logger)
	return a, nil
}

// NewFromParts assembles an assistant from already-built components. idx
// and summarizer may be nil.
func NewFromParts(store *corpus.Store, idx *index.Index, summarizer summary.Summarizer, rc ranker.Config, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	lex := lexicon.Default()
	return &Assistant{
		store:      store,
		lexicon:    lex,
		index:      idx,
		engine:     ranker.New(store, lex, idx, rc, logger),
		summarizer: summarizer,
		logger:     logger.With("component", "assistant"),
	}
}

func loadCorpus(ctx context.Context, cfg config.Config) (*corpus.Store, error) {
	if cfg.DatabasePath != "" {
		db, err := corpus.OpenSQLite(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		return db.Load(ctx)
	}

	videos := cfg.VideosFile()
	if cfg.VideosPath == "" && videos != "" {
		// The metadata file is optional unless named explicitly.
		if _, err := os.Stat(videos); err != nil {
			videos = ""
		}
	}
	return corpus.LoadJSON(cfg.MergedFile(), videos)
}

func (a *Assistant) buildIndex(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	emb, err := embedder.New(cfg.EmbedderConfig())
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, err)
	}

	idx, stats, err := index.Build(ctx, emb, a.store.Segments(), cfg.IndexConfig(), logger)
	if err != nil {
		_ = emb.Close()
		return err
	}

	a.embedder = emb
	a.index = idx
	a.logger.Info("semantic index ready",
		"provider", emb.Provider(),
		"model", emb.Model(),
		"indexed", stats.SegmentsIndexed,
		"skipped", stats.SegmentsSkipped,
		"duration", stats.Duration)
	return nil
}

func (a *Assistant) warn(msg string, err error) {
	a.logger.Warn(msg, "error", err)
	a.warnings = append(a.warnings, fmt.Sprintf("%s: %v", msg, err))
}

// Search ranks videos for query and generates a recommendation from the
// results. maxResults below 1 fails with types.ErrInvalidArgument. A failed
// summary is logged and replaced by summary.Fallback.
func (a *Assistant) Search(ctx context.Context, query string, maxResults int) (*Answer, error) {
	resp, err := a.engine.Search(ctx, ranker.SearchRequest{Query: query, Limit: maxResults})
	if err != nil {
		return nil, err
	}

	recommendation, err := summary.Generate(ctx, a.summarizer, query, resp.Results)
	if err != nil {
		a.logger.Warn("summary failed, using fallback", "error", err)
	}

	return &Answer{
		Query:          query,
		Recommendation: recommendation,
		Videos:         resp.Results,
		TotalResults:   len(resp.Results),
		SearchType:     string(resp.SearchMode),
		Diagnostics:    resp.Diagnostics,
	}, nil
}

// Rank runs the engine without generating a summary.
func (a *Assistant) Rank(ctx context.Context, req ranker.SearchRequest) (*ranker.SearchResponse, error) {
	return a.engine.Search(ctx, req)
}

// Video returns a video and its transcript.
func (a *Assistant) Video(id string) (types.Video, []types.TranscriptSegment, error) {
	if a.store == nil {
		return types.Video{}, nil, types.ErrDataUnavailable
	}
	v, ok := a.store.Video(id)
	if !ok {
		return types.Video{}, nil, fmt.Errorf("%w: video %q", types.ErrNoMatch, id)
	}
	return v, a.store.Transcript(id), nil
}

// TopicCounts counts corpus titles per lexicon topic.
func (a *Assistant) TopicCounts() ([]lexicon.TopicCount, error) {
	if a.store == nil {
		return nil, types.ErrDataUnavailable
	}
	return a.lexicon.TopicCounts(a.store.Titles()), nil
}

// Store returns the corpus, or nil when it failed to load.
func (a *Assistant) Store() *corpus.Store {
	return a.store
}

// Lexicon returns the topic lexicon.
func (a *Assistant) Lexicon() *lexicon.Lexicon {
	return a.lexicon
}

// Health reports what is loaded and which optional capabilities are active.
func (a *Assistant) Health() Status {
	st := Status{
		Status:             StatusHealthy,
		SemanticIndexReady: a.engine.SemanticAvailable(),
		SummaryEnabled:     a.summarizer != nil,
		Warnings:           append([]string(nil), a.warnings...),
	}
	if a.store == nil {
		st.Status = StatusDegraded
	} else {
		st.VideosLoaded = a.store.Len()
		st.SegmentsLoaded = a.store.SegmentCount()
	}
	if a.index != nil {
		st.SegmentsIndexed = a.index.Len()
	}
	return st
}

// Close releases the embedding provider.
func (a *Assistant) Close() error {
	if a.embedder == nil {
		return nil
	}
	return a.embedder.Close()
}
