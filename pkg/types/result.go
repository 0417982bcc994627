package types

import "math"

// SearchResult is one ranked video returned to a caller. Results are built
// fresh per query and never cached.
type SearchResult struct {
	Rank           int     `json:"rank"` // Position in result set (1-based)
	VideoID        string  `json:"video_id"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	RelevanceScore float64 `json:"relevance_score"` // Fused semantic + lexical score
	Timestamp      string  `json:"timestamp"`       // M:SS of the best evidence segment
	Context        string  `json:"context"`         // Best evidence text, truncated
	Description    string  `json:"description"`     // Video description, truncated
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.VideoID == "" {
		return ErrMissingVideoID
	}

	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if math.IsNaN(sr.RelevanceScore) || math.IsInf(sr.RelevanceScore, 0) {
		return ErrInvalidRelevanceScore
	}

	return nil
}
