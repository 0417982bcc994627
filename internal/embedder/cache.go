package embedder

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of embeddings kept when no size is given.
const DefaultCacheSize = 10000

// Cache provides in-memory LRU caching of embeddings by content hash
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates a new embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		cache, _ = lru.New[string, *Embedding](DefaultCacheSize)
	}
	return &Cache{cache: cache}
}

// Get returns a copy of a cached embedding so callers cannot mutate it.
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}

	vectorCopy := make([]float32, len(emb.Vector))
	copy(vectorCopy, emb.Vector)

	return &Embedding{
		Vector:    vectorCopy,
		Dimension: emb.Dimension,
		Provider:  emb.Provider,
		Model:     emb.Model,
		Hash:      emb.Hash,
	}, true
}

// Set stores an embedding in cache with automatic LRU eviction
func (c *Cache) Set(hash string, emb *Embedding) {
	c.cache.Add(hash, emb)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// cachedEmbedder serves repeated texts from a Cache and forwards only
// misses to the wrapped provider.
type cachedEmbedder struct {
	Embedder
	cache *Cache
}

// WithCache wraps e so identical texts are embedded once.
func WithCache(e Embedder, cache *Cache) Embedder {
	if cache == nil {
		return e
	}
	return &cachedEmbedder{Embedder: e, cache: cache}
}

func (c *cachedEmbedder) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	return single(ctx, c, req)
}

func (c *cachedEmbedder) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	out := make([]*Embedding, len(req.Texts))
	hashes := make([]string, len(req.Texts))
	var (
		missTexts []string
		missPos   []int
	)
	for i, text := range req.Texts {
		hashes[i] = ComputeHash(text)
		if emb, ok := c.cache.Get(hashes[i]); ok {
			out[i] = emb
			continue
		}
		missTexts = append(missTexts, text)
		missPos = append(missPos, i)
	}

	if len(missTexts) > 0 {
		resp, err := c.Embedder.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: missTexts})
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != len(missTexts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrProviderFailed, len(resp.Embeddings), len(missTexts))
		}
		for j, emb := range resp.Embeddings {
			pos := missPos[j]
			emb.Hash = hashes[pos]
			stored := *emb
			stored.Vector = append([]float32(nil), emb.Vector...)
			c.cache.Set(emb.Hash, &stored)
			out[pos] = emb
		}
	}

	return &BatchEmbeddingResponse{
		Embeddings: out,
		Provider:   c.Provider(),
		Model:      c.Model(),
	}, nil
}
