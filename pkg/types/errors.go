package types

import "errors"

// Query errors shared by every surface. Callers test with errors.Is and map
// them to transport-specific codes.
var (
	// ErrInvalidArgument reports an empty query or an out-of-range result count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoMatch reports that a well-formed query matched nothing.
	ErrNoMatch = errors.New("no relevant content found")

	// ErrDataUnavailable reports that the corpus failed to load at start-up.
	ErrDataUnavailable = errors.New("corpus data unavailable")

	// ErrUpstreamUnavailable reports that an optional capability (embedding
	// or generation) is missing or failing.
	ErrUpstreamUnavailable = errors.New("upstream capability unavailable")
)

// Validation errors
var (
	ErrMissingVideoID        = errors.New("video ID is required")
	ErrInvalidRank           = errors.New("rank must be >= 1")
	ErrInvalidRelevanceScore = errors.New("relevance score must be finite")
)
