package index

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"

	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// MinSegmentChars is the shortest trimmed text that gets indexed; segments
// at or below it carry too little meaning to embed.
const MinSegmentChars = 10

// ErrDimensionMismatch is returned when a provider returns vectors of
// inconsistent length.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Entry is the metadata stored alongside each vector.
type Entry struct {
	VideoID string
	Segment types.TranscriptSegment
}

// Hit is one query result.
type Hit struct {
	Position int // Position in the index
	Entry    Entry
	Score    float64 // Inner product of unit vectors
}

// Config contains configuration for index construction
type Config struct {
	BatchSize int // Segments per embedding call (default: embedder.DefaultBatchSize)
	Workers   int // Concurrent embedding calls (default: runtime.NumCPU())
}

// Statistics contains statistics about a build
type Statistics struct {
	SegmentsIndexed int
	SegmentsSkipped int
	Batches         int
	Duration        time.Duration
}

// Index is an immutable in-memory vector index over transcript segments.
// Vectors are stored contiguously, unit-normalised, with a parallel metadata
// slice. It is safe for concurrent queries.
type Index struct {
	embedder embedder.Embedder
	dim      int
	vectors  []float32 // len == dim * len(entries)
	entries  []Entry
}

// Build embeds every segment with more than MinSegmentChars characters of
// text and returns the index. Batches run concurrently but vectors are
// assembled in input order. Zero eligible segments yield an empty index.
func Build(ctx context.Context, emb embedder.Embedder, segments []types.TranscriptSegment, config *Config, logger *slog.Logger) (*Index, *Statistics, error) {
	if emb == nil {
		return nil, nil, fmt.Errorf("%w: no embedder", types.ErrUpstreamUnavailable)
	}
	if config == nil {
		config = &Config{}
	}
	batchSize := config.BatchSize
	if batchSize <= 0 || batchSize > embedder.MaxBatchSize {
		batchSize = embedder.DefaultBatchSize
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "index")

	start := time.Now()
	stats := &Statistics{}

	entries := make([]Entry, 0, len(segments))
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if utf8.RuneCountInString(text) <= MinSegmentChars {
			stats.SegmentsSkipped++
			continue
		}
		entries = append(entries, Entry{VideoID: seg.VideoID, Segment: seg})
		texts = append(texts, text)
	}

	idx := &Index{embedder: emb, dim: emb.Dimension()}
	if len(entries) == 0 {
		stats.Duration = time.Since(start)
		logger.Warn("no segments eligible for embedding", "skipped", stats.SegmentsSkipped)
		return idx, stats, nil
	}

	batches := (len(texts) + batchSize - 1) / batchSize
	results := make([][][]float32, batches)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		done     atomic.Int32
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for b := 0; b < batches; b++ {
		lo := b * batchSize
		hi := min(lo+batchSize, len(texts))
		slot := b

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts[lo:hi]})
			if err != nil {
				fail(fmt.Errorf("batch %d: %w", slot, err))
				return
			}
			if len(resp.Embeddings) != hi-lo {
				fail(fmt.Errorf("batch %d: got %d embeddings for %d texts", slot, len(resp.Embeddings), hi-lo))
				return
			}
			vecs := make([][]float32, len(resp.Embeddings))
			for i, e := range resp.Embeddings {
				vecs[i] = embedder.NormalizeVector(e.Vector)
			}
			results[slot] = vecs
			if n := done.Add(1); n%10 == 0 {
				logger.Debug("embedding progress", "batches_done", n, "batches", batches)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch %d: %w", slot, err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, nil, fmt.Errorf("%w: %v", types.ErrUpstreamUnavailable, firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Assemble in batch order.
	dim := len(results[0][0])
	if dim == 0 {
		return nil, nil, fmt.Errorf("%w: provider returned empty vectors", ErrDimensionMismatch)
	}
	idx.dim = dim
	idx.vectors = make([]float32, 0, dim*len(entries))
	for b, vecs := range results {
		for i, v := range vecs {
			if len(v) != dim {
				return nil, nil, fmt.Errorf("%w: batch %d item %d has %d, want %d", ErrDimensionMismatch, b, i, len(v), dim)
			}
			idx.vectors = append(idx.vectors, v...)
		}
	}
	idx.entries = entries

	stats.SegmentsIndexed = len(entries)
	stats.Batches = batches
	stats.Duration = time.Since(start)
	logger.Info("index built",
		"segments", stats.SegmentsIndexed,
		"skipped", stats.SegmentsSkipped,
		"batches", batches,
		"dimension", dim,
		"duration", stats.Duration)

	return idx, stats, nil
}

// Len returns the number of indexed segments.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimension returns the vector dimension.
func (idx *Index) Dimension() int {
	return idx.dim
}

// Entry returns the metadata at position pos.
func (idx *Index) Entry(pos int) Entry {
	return idx.entries[pos]
}

// Query embeds text and returns up to k hits ordered by score descending,
// ties broken by lower position. An empty index returns no hits.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]Hit, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", types.ErrInvalidArgument, k)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty query", types.ErrInvalidArgument)
	}
	if idx.Len() == 0 {
		return nil, nil
	}

	emb, err := idx.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", types.ErrUpstreamUnavailable, err)
	}
	if len(emb.Vector) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(emb.Vector), idx.dim)
	}

	return idx.search(embedder.NormalizeVector(emb.Vector), k), nil
}

// search scans all vectors, keeping the k best in a bounded min-heap.
func (idx *Index) search(q []float32, k int) []Hit {
	h := make(hitHeap, 0, min(k, idx.Len())+1)
	for pos := range idx.entries {
		score := dot(q, idx.vectors[pos*idx.dim:(pos+1)*idx.dim])
		if len(h) < k {
			heap.Push(&h, Hit{Position: pos, Score: score})
			continue
		}
		if better(Hit{Position: pos, Score: score}, h[0]) {
			h[0] = Hit{Position: pos, Score: score}
			heap.Fix(&h, 0)
		}
	}

	out := make([]Hit, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		hit := heap.Pop(&h).(Hit)
		hit.Entry = idx.entries[hit.Position]
		out[i] = hit
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

// better reports whether a ranks ahead of b.
func better(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Position < b.Position
}

// hitHeap keeps the worst retained hit at the root.
type hitHeap []Hit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)        { *h = append(*h, x.(Hit)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
