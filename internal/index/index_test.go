package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/huberman-health-mcp/internal/embedder"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// axisEmbedder maps "axis N ..." texts to the unit vector e_N, sleeping a
// little per batch so concurrent batches finish out of order.
type axisEmbedder struct {
	*embedder.LocalProvider
	dim     int
	fail    bool
	queries []string
}

func (a *axisEmbedder) vector(text string) []float32 {
	v := make([]float32, a.dim)
	var n int
	if _, err := fmt.Sscanf(text, "axis %d", &n); err == nil {
		v[n%a.dim] = 2 // not unit length on purpose
	} else {
		v[0], v[1] = 1, 1
	}
	return v
}

func (a *axisEmbedder) GenerateBatch(ctx context.Context, req embedder.BatchEmbeddingRequest) (*embedder.BatchEmbeddingResponse, error) {
	if a.fail {
		return nil, errors.New("provider down")
	}
	time.Sleep(time.Duration(len(req.Texts[0])%3) * time.Millisecond)
	out := make([]*embedder.Embedding, len(req.Texts))
	for i, text := range req.Texts {
		out[i] = &embedder.Embedding{Vector: a.vector(text), Dimension: a.dim}
	}
	return &embedder.BatchEmbeddingResponse{Embeddings: out}, nil
}

func (a *axisEmbedder) GenerateEmbedding(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error) {
	a.queries = append(a.queries, req.Text)
	return &embedder.Embedding{Vector: a.vector(req.Text), Dimension: a.dim}, nil
}

func (a *axisEmbedder) Dimension() int { return a.dim }

func newAxisEmbedder(dim int) *axisEmbedder {
	return &axisEmbedder{LocalProvider: embedder.NewLocalProvider(dim), dim: dim}
}

func segmentsFor(texts ...string) []types.TranscriptSegment {
	segs := make([]types.TranscriptSegment, len(texts))
	for i, text := range texts {
		segs[i] = types.TranscriptSegment{VideoID: fmt.Sprintf("v%d", i/3), Index: i % 3, Text: text}
	}
	return segs
}

func TestBuildFiltersShortSegments(t *testing.T) {
	segs := segmentsFor("axis 1 long enough text", "too short", "   ", "exactly10!", "axis 2 also long enough")

	idx, stats, err := Build(context.Background(), newAxisEmbedder(8), segs, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, stats.SegmentsIndexed)
	assert.Equal(t, 3, stats.SegmentsSkipped)
	assert.Equal(t, 8, idx.Dimension())
	assert.Len(t, idx.vectors, idx.Len()*idx.Dimension())
	assert.Equal(t, "axis 1 long enough text", idx.Entry(0).Segment.Text)
	assert.Equal(t, "axis 2 also long enough", idx.Entry(1).Segment.Text)
}

func TestBuildPreservesOrderAcrossBatches(t *testing.T) {
	const n = 40
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("axis %d %s", i, strings.Repeat("x", i%7))
	}

	emb := newAxisEmbedder(n)
	idx, stats, err := Build(context.Background(), emb, segmentsFor(texts...), &Config{BatchSize: 3, Workers: 6}, nil)
	require.NoError(t, err)
	require.Equal(t, n, idx.Len())
	assert.Equal(t, 14, stats.Batches)

	for i := 0; i < n; i++ {
		entry := idx.Entry(i)
		assert.Equal(t, texts[i], entry.Segment.Text)

		hits, err := idx.Query(context.Background(), fmt.Sprintf("axis %d", i), 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, i, hits[0].Position, "vector %d stored out of order", i)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6, "vectors are unit length")
	}
}

func TestBuildEmpty(t *testing.T) {
	idx, stats, err := Build(context.Background(), newAxisEmbedder(4), segmentsFor("short"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 1, stats.SegmentsSkipped)

	hits, err := idx.Query(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBuildFailure(t *testing.T) {
	emb := newAxisEmbedder(4)
	emb.fail = true

	_, _, err := Build(context.Background(), emb, segmentsFor("axis 1 long enough text"), nil, nil)
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)

	_, _, err = Build(context.Background(), nil, nil, nil, nil)
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
}

func TestQuery(t *testing.T) {
	segs := segmentsFor(
		"axis 0 first segment text",
		"axis 1 second segment text",
		"axis 0 third segment, same vector",
		"axis 2 fourth segment text",
	)
	idx, _, err := Build(context.Background(), newAxisEmbedder(4), segs, nil, nil)
	require.NoError(t, err)

	t.Run("ties keep index order", func(t *testing.T) {
		hits, err := idx.Query(context.Background(), "axis 0", 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, 0, hits[0].Position)
		assert.Equal(t, 2, hits[1].Position)
		assert.Equal(t, "v0", hits[1].Entry.VideoID)
		assert.InDelta(t, 0.0, hits[2].Score, 1e-6)
		assert.Equal(t, 1, hits[2].Position)
	})

	t.Run("k larger than index", func(t *testing.T) {
		hits, err := idx.Query(context.Background(), "axis 2", 50)
		require.NoError(t, err)
		assert.Len(t, hits, 4)
		assert.Equal(t, 3, hits[0].Position)
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := idx.Query(context.Background(), "axis 0", 0)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)

		_, err = idx.Query(context.Background(), "  ", 3)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := idx.Query(context.Background(), "mixed query", 4)
		require.NoError(t, err)
		b, err := idx.Query(context.Background(), "mixed query", 4)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
