package ranker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/huberman-health-mcp/internal/corpus"
	"github.com/dshills/huberman-health-mcp/internal/evidence"
	"github.com/dshills/huberman-health-mcp/internal/index"
	"github.com/dshills/huberman-health-mcp/internal/lexicon"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// VectorIndex is the nearest-neighbour capability the engine needs.
type VectorIndex interface {
	Query(ctx context.Context, text string, k int) ([]index.Hit, error)
	Len() int
}

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query string
	Limit int
	Mode  SearchMode // Empty selects Config.DefaultMode
}

// Diagnostic records an item skipped during a query.
type Diagnostic struct {
	VideoID string `json:"video_id,omitempty"`
	Reason  string `json:"reason"`
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results           []types.SearchResult
	TotalCandidates   int        // Videos that passed inclusion, before truncation
	SearchMode        SearchMode // Mode actually applied
	SemanticAvailable bool
	SemanticHits      int // Vector hits above MinSimilarity
	Topics            []string // Lexicon topics the query matched
	Duration          time.Duration
	Diagnostics       []Diagnostic
}

// Engine ranks videos for free-text queries. It holds only immutable state
// and is safe for concurrent use.
type Engine struct {
	store   *corpus.Store
	lexicon *lexicon.Lexicon
	index   VectorIndex
	config  Config
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates an engine. idx may be nil when no embedding capability is
// available; hybrid queries then run lexical-only. A nil store makes every
// query fail with types.ErrDataUnavailable.
func New(store *corpus.Store, lex *lexicon.Lexicon, idx VectorIndex, config Config, logger *slog.Logger) *Engine {
	if ix, ok := idx.(*index.Index); ok && ix == nil {
		idx = nil
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		lexicon: lex,
		index:   idx,
		config:  config,
		logger:  logger.With("component", "ranker"),
		tracer:  otel.Tracer("github.com/dshills/huberman-health-mcp/internal/ranker"),
	}
}

// SemanticAvailable reports whether vector search can contribute.
func (e *Engine) SemanticAvailable() bool {
	return e.index != nil
}

// Search ranks the corpus against req and returns at most req.Limit results.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	ctx, span := e.tracer.Start(ctx, "ranker.search")
	defer span.End()

	resp, err := e.search(ctx, req)
	if err != nil {
		span.RecordError(err)
		if !errors.Is(err, types.ErrNoMatch) {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}

	resp.Duration = time.Since(startTime)
	span.SetAttributes(
		attribute.String("search.mode", string(resp.SearchMode)),
		attribute.Int("search.results", len(resp.Results)),
		attribute.Int("search.candidates", resp.TotalCandidates),
		attribute.Int("search.diagnostics", len(resp.Diagnostics)),
	)
	return resp, nil
}

// semanticResult holds the outcome of the concurrent vector query.
type semanticResult struct {
	hits []index.Hit
	err  error
}

func (e *Engine) search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if e.store == nil {
		return nil, types.ErrDataUnavailable
	}
	if err := e.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	useLexical := req.Mode != SearchModeSemantic
	useSemantic := req.Mode != SearchModeKeyword && e.index != nil
	if req.Mode == SearchModeSemantic && e.index == nil {
		return nil, fmt.Errorf("%w: semantic search is disabled", types.ErrUpstreamUnavailable)
	}

	q := newQuery(req.Query, e.lexicon)
	resp := &SearchResponse{
		SearchMode:        req.Mode,
		SemanticAvailable: e.index != nil,
		Topics:            q.topicNames(),
	}
	if !useSemantic {
		resp.SearchMode = SearchModeKeyword
	}
	diags := &diagnostics{logger: e.logger}

	// The vector query may involve a network call; overlap it with the
	// lexical pass.
	var semChan chan semanticResult
	if useSemantic {
		semChan = make(chan semanticResult, 1)
		go func() {
			hits, err := e.index.Query(ctx, q.text, e.config.TopKVector)
			semChan <- semanticResult{hits: hits, err: err}
		}()
	}

	cands := make([]*candidate, e.store.Len())

	if useLexical {
		e.lexicalPass(q, cands, diags)
	}

	if useSemantic {
		var res semanticResult
		select {
		case res = <-semChan:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if res.err != nil {
			if req.Mode == SearchModeSemantic {
				return nil, res.err
			}
			diags.add("", "semantic search failed, lexical only: "+res.err.Error())
			resp.SearchMode = SearchModeKeyword
		} else {
			resp.SemanticHits = e.semanticPass(res.hits, cands, diags)
		}
	}

	ranked := e.rank(q, cands, useLexical, diags)
	results := make([]types.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		res := evidence.Build(len(results)+1, r.video, r.score, r.context, r.seconds)
		if err := res.Validate(); err != nil {
			diags.add(r.video.ID, "result dropped: "+err.Error())
			continue
		}
		results = append(results, res)
	}
	resp.TotalCandidates = len(results)
	resp.Diagnostics = diags.items

	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %q", types.ErrNoMatch, req.Query)
	}

	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	resp.Results = results

	return resp, nil
}

// validateRequest checks the request and fills defaults.
func (e *Engine) validateRequest(req *SearchRequest) error {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", types.ErrInvalidArgument)
	}
	if req.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1, got %d", types.ErrInvalidArgument, req.Limit)
	}
	if req.Mode == "" {
		req.Mode = e.config.DefaultMode
	}
	mode, err := ParseSearchMode(string(req.Mode))
	if err != nil {
		return err
	}
	req.Mode = mode
	return nil
}

// lexicalPass scores every video's title and segments.
func (e *Engine) lexicalPass(q *query, cands []*candidate, diags *diagnostics) {
	w := e.config.Weights
	for pos := 0; pos < e.store.Len(); pos++ {
		video := e.store.VideoAt(pos)
		diags.guard(video.ID, func() error {
			title := q.score(strings.ToLower(video.Title), w.TitleWord, w.TitleCategory)

			var segs []scoredSegment
			for _, seg := range e.store.TranscriptAt(pos) {
				if seg.Text == "" {
					continue
				}
				if s := q.score(strings.ToLower(seg.Text), w.BodyWord, w.BodyCategory); s > 0 {
					segs = append(segs, scoredSegment{segment: seg, lexical: s})
				}
			}
			sort.SliceStable(segs, func(i, j int) bool {
				return segs[i].lexical > segs[j].lexical
			})
			if len(segs) > e.config.SegmentsPerVideo {
				segs = segs[:e.config.SegmentsPerVideo]
			}

			if title == 0 && len(segs) == 0 {
				return nil
			}
			c := candidateAt(cands, pos, video)
			c.title = title
			c.segments = segs
			return nil
		})
	}
}

// semanticPass attributes vector hits to their videos and returns how many
// were used. The index returns its k nearest even when nothing is near, so
// hits at or below MinSimilarity are dropped.
func (e *Engine) semanticPass(hits []index.Hit, cands []*candidate, diags *diagnostics) int {
	kept := 0
	for _, hit := range hits {
		if hit.Score <= e.config.MinSimilarity {
			continue
		}
		kept++
		videoID := hit.Entry.VideoID
		diags.guard(videoID, func() error {
			pos, ok := e.store.Position(videoID)
			if !ok {
				return errors.New("semantic hit references unknown video")
			}
			c := candidateAt(cands, pos, e.store.VideoAt(pos))
			c.semantic = append(c.semantic, semanticHit{segment: hit.Entry.Segment, score: hit.Score})
			c.semanticSum += hit.Score
			return nil
		})
	}
	return kept
}

// rankedVideo is a fused, included candidate with its best evidence.
type rankedVideo struct {
	video   types.Video
	score   float64
	context string
	seconds float64
}

// rank fuses scores, applies the inclusion rule, picks best evidence and
// orders the result by score, keeping corpus order for ties.
func (e *Engine) rank(q *query, cands []*candidate, useLexical bool, diags *diagnostics) []rankedVideo {
	w := e.config.Weights
	var out []rankedVideo
	for _, c := range cands {
		if c == nil || !c.included() {
			continue
		}
		diags.guard(c.video.ID, func() error {
			r := rankedVideo{
				video: c.video,
				score: c.avgSemantic()*w.Semantic + float64(c.lexical())*w.Lexical,
			}
			if best, ok := c.bestEvidence(q, w, useLexical); ok {
				r.context = best.Text
				r.seconds = best.Start.Float()
			} else {
				r.context = evidence.TitlePlaceholder(c.video.Title)
			}
			out = append(out, r)
			return nil
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}
