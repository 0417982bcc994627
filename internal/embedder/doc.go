// Package embedder generates vector embeddings for transcript segments and
// queries.
//
// # Providers
//
//   - openai: any OpenAI-compatible /embeddings endpoint over HTTP
//   - ollama: a local Ollama server through langchaingo
//   - local: offline word hashing, deterministic, no network
//   - none: embedding disabled; the search engine runs lexical-only
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider:  "openai",
//	    APIKey:    os.Getenv("OPENAI_API_KEY"),
//	    CacheSize: 10000,
//	    RateLimit: 5,
//	})
//	if errors.Is(err, embedder.ErrNoProviderEnabled) {
//	    // run without semantic search
//	}
//	defer emb.Close()
//
//	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{
//	    Texts: []string{"morning sunlight", "cold exposure"},
//	})
//
// Batch results are always returned in input order.
//
// # Caching and Throttling
//
// WithCache serves repeated texts from an LRU keyed by content hash.
// WithRateLimit throttles remote providers with a token bucket. Remote
// providers also retry transient failures with exponential backoff:
//
//	_, err := emb.GenerateBatch(ctx, req)
//	if errors.Is(err, embedder.ErrProviderFailed) {
//	    // provider unavailable after retries
//	}
package embedder
