package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/huberman-health-mcp/internal/evidence"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams       = -32602 // Invalid method parameters
	ErrorCodeInternalError       = -32603 // Internal JSON-RPC error
	ErrorCodeVideoNotFound       = -32001 // No video with the given id
	ErrorCodeDataUnavailable     = -32002 // Corpus failed to load at start-up
	ErrorCodeSemanticUnavailable = -32003 // Semantic mode requested without an index
	ErrorCodeEmptyQuery          = -32004 // Query parameter is empty
)

// Disclaimer closes every search response.
const Disclaimer = "**Health Disclaimer**: This information is for educational purposes only and is not medical advice. Always consult healthcare professionals for medical concerns."

const descriptionPreview = 150

// handleSearchHealthContent handles the search_health_content tool invocation
func (s *Server) handleSearchHealthContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, _ := args["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	maxResults := getIntDefault(args, "max_results", DefaultMaxResults)
	if maxResults < 1 || maxResults > MaxMaxResults {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("max_results must be between 1 and %d", MaxMaxResults), map[string]interface{}{
			"param": "max_results",
			"value": maxResults,
		})
	}

	mode, err := ranker.ParseSearchMode(getStringDefault(args, "search_mode", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_mode", map[string]interface{}{
			"param":   "search_mode",
			"value":   args["search_mode"],
			"allowed": []string{"hybrid", "semantic", "keyword"},
		})
	}

	resp, err := s.assistant.Rank(ctx, ranker.SearchRequest{Query: query, Limit: maxResults, Mode: mode})
	switch {
	case errors.Is(err, types.ErrNoMatch):
		return mcp.NewToolResultText(fmt.Sprintf("No relevant content found for query: '%s'", query)), nil
	case err != nil:
		return nil, s.toMCPError("search failed", err)
	}

	for _, d := range resp.Diagnostics {
		s.logger.Debug("search diagnostic", "video_id", d.VideoID, "reason", d.Reason)
	}

	return mcp.NewToolResultText(FormatResults(query, resp.Results)), nil
}

// FormatResults renders ranked results as markdown for model consumption.
func FormatResults(query string, results []types.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant results for %q:\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(&b, "**Result %d: %s**\n", i+1, r.Title)
		fmt.Fprintf(&b, "- Relevance Score: %.1f\n", r.RelevanceScore)
		fmt.Fprintf(&b, "- Video URL: %s\n", r.URL)
		fmt.Fprintf(&b, "- Timestamp: %s\n", r.Timestamp)
		fmt.Fprintf(&b, "- Context: \"%s\"\n", r.Context)
		if r.Description != "" {
			fmt.Fprintf(&b, "- Description: %s\n", evidence.Truncate(r.Description, descriptionPreview))
		}
		b.WriteString("\n")
	}
	b.WriteString(Disclaimer)
	return b.String()
}

// handleGetVideoTranscript handles the get_video_transcript tool invocation
func (s *Server) handleGetVideoTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	videoID, _ := args["video_id"].(string)
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "video_id parameter is required", map[string]interface{}{
			"param":  "video_id",
			"reason": "missing or empty",
		})
	}

	video, transcript, err := s.assistant.Video(videoID)
	if err != nil {
		return nil, s.toMCPError("transcript lookup failed", err)
	}

	text := FormatTranscript(video, transcript)
	if text == "" {
		return mcp.NewToolResultText(fmt.Sprintf("No transcript available for video ID: %s", videoID)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// FormatTranscript renders one "[M:SS] text" line per non-empty segment
// under a title header. It returns "" when no segment has text.
func FormatTranscript(video types.Video, transcript []types.TranscriptSegment) string {
	var b strings.Builder
	for _, seg := range transcript {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", evidence.FormatTimestamp(seg.Start.Float()), text)
	}
	if b.Len() == 0 {
		return ""
	}

	title := video.Title
	if title == "" {
		title = "Unknown"
	}
	return fmt.Sprintf("**Transcript for: %s**\n\n%s", title, b.String())
}

// handleGetHealthTopics handles the get_health_topics tool invocation
func (s *Server) handleGetHealthTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := s.assistant.TopicCounts()
	if err != nil {
		return nil, s.toMCPError("topic listing failed", err)
	}
	store := s.assistant.Store()

	var b strings.Builder
	b.WriteString("**Health Topics Covered in Huberman Lab:**\n\n")
	if len(counts) == 0 {
		b.WriteString("- none found\n")
	}
	for _, c := range counts {
		fmt.Fprintf(&b, "- %s: %d videos\n", c.Topic, c.Count)
	}
	fmt.Fprintf(&b, "\n**Total Videos**: %d\n", store.Len())
	fmt.Fprintf(&b, "**Total Transcripts**: %d\n", transcriptCount(store))
	b.WriteString(`
**Usage Examples**:
- Search for sleep: "I have trouble sleeping"
- Search for stress: "How to manage stress and anxiety"
- Search for focus: "Ways to improve concentration"
- Search for fitness: "How to build muscle effectively"
`)

	return mcp.NewToolResultText(b.String()), nil
}

// Helper functions

// toMCPError maps the error taxonomy onto MCP error codes
func (s *Server) toMCPError(message string, err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return newMCPError(ErrorCodeInvalidParams, message, map[string]interface{}{"error": err.Error()})
	case errors.Is(err, types.ErrNoMatch):
		return newMCPError(ErrorCodeVideoNotFound, message, map[string]interface{}{"error": err.Error()})
	case errors.Is(err, types.ErrDataUnavailable):
		return newMCPError(ErrorCodeDataUnavailable, "video data is not loaded", nil)
	case errors.Is(err, types.ErrUpstreamUnavailable):
		return newMCPError(ErrorCodeSemanticUnavailable, "semantic search is unavailable", map[string]interface{}{"error": err.Error()})
	default:
		s.logger.Error(message, "error", err)
		return newMCPError(ErrorCodeInternalError, message, nil)
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
