package ranker

import (
	"fmt"
	"strings"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// SearchMode selects which evidence sources contribute to the score.
type SearchMode string

const (
	SearchModeHybrid   SearchMode = "hybrid"   // Semantic + lexical fusion
	SearchModeSemantic SearchMode = "semantic" // Vector similarity only
	SearchModeKeyword  SearchMode = "keyword"  // Lexical and category matching only
)

// ParseSearchMode maps a case-insensitive name to a SearchMode. Empty input
// selects hybrid.
func ParseSearchMode(s string) (SearchMode, error) {
	switch m := SearchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SearchModeHybrid, nil
	case SearchModeHybrid, SearchModeSemantic, SearchModeKeyword:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown search mode %q", types.ErrInvalidArgument, s)
	}
}

// Weights are the fusion constants. Lexical terms are integers per match;
// the semantic average is scaled by Semantic and the lexical total by Lexical.
type Weights struct {
	BodyWord      int     // Per query word found in a segment
	BodyCategory  int     // Per matched topic mentioned in a segment
	TitleWord     int     // Per query word found in the title
	TitleCategory int     // Per matched topic mentioned in the title
	Semantic      float64 // Multiplier for the mean semantic similarity
	Lexical       float64 // Multiplier for title + best segment lexical score
}

// DefaultWeights returns the production fusion constants.
func DefaultWeights() Weights {
	return Weights{
		BodyWord:      2,
		BodyCategory:  3,
		TitleWord:     5,
		TitleCategory: 10,
		Semantic:      50,
		Lexical:       1,
	}
}

// Config contains engine configuration
type Config struct {
	Weights          Weights
	SegmentsPerVideo int        // Lexical segments retained per video (default 3)
	TopKVector       int        // Nearest neighbours fetched per query (default 15)
	MinSimilarity    float64    // Vector hits at or below this similarity are ignored
	DefaultMode      SearchMode // Used when a request leaves Mode empty
}

// DefaultConfig returns the production engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		SegmentsPerVideo: 3,
		TopKVector:       15,
		DefaultMode:      SearchModeHybrid,
	}
}

// Validate checks the configuration for impossible values.
func (c Config) Validate() error {
	if c.SegmentsPerVideo < 1 {
		return fmt.Errorf("%w: segments per video must be >= 1", types.ErrInvalidArgument)
	}
	if c.TopKVector < 1 {
		return fmt.Errorf("%w: top-k vector must be >= 1", types.ErrInvalidArgument)
	}
	if c.MinSimilarity < -1 || c.MinSimilarity >= 1 {
		return fmt.Errorf("%w: min similarity must be in [-1, 1)", types.ErrInvalidArgument)
	}
	if c.Weights.Semantic < 0 || c.Weights.Lexical < 0 {
		return fmt.Errorf("%w: weights must be non-negative", types.ErrInvalidArgument)
	}
	if _, err := ParseSearchMode(string(c.DefaultMode)); err != nil {
		return err
	}
	return nil
}
