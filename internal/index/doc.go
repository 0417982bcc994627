// Package index builds and queries the in-memory embedding index over
// transcript segments.
//
// Build filters out segments with ten or fewer characters of text, embeds
// the rest in batches on a bounded worker pool, and stores unit-normalised
// vectors contiguously next to a parallel metadata slice:
//
//	idx, stats, err := index.Build(ctx, emb, store.Segments(), &index.Config{Workers: 4}, logger)
//	hits, err := idx.Query(ctx, "how to fall asleep faster", 15)
//
// Because vectors are unit length, inner product equals cosine similarity.
// Query results are stable: equal scores keep index order. The index is
// immutable after Build and safe for concurrent queries.
package index
