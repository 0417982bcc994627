// Package types provides shared type definitions for the Huberman health
// search service.
//
// # Core Types
//
// Video is a corpus entry loaded once at start-up:
//
//	video := types.Video{
//	    ID:    "abc123",
//	    Title: "Master Your Sleep & Be More Alert When Awake",
//	    URL:   "https://www.youtube.com/watch?v=abc123",
//	}
//
// TranscriptSegment is a timed slice of a video's transcript. Its Start field
// is a Seconds value that tolerates malformed input:
//
//	var seg types.TranscriptSegment
//	_ = json.Unmarshal([]byte(`{"text":"...","start":"not-a-number"}`), &seg)
//	// seg.Start == 0
//
// # Search Results
//
// SearchResult is what every surface (HTTP, MCP, CLI) renders: the video,
// a fused relevance score, the best evidence segment and its timestamp.
//
// # Errors
//
// ErrInvalidArgument, ErrNoMatch, ErrDataUnavailable and
// ErrUpstreamUnavailable form the error taxonomy shared by all packages.
// Wrap them with fmt.Errorf("...: %w", err) and test with errors.Is.
package types
