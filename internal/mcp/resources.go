package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/huberman-health-mcp/internal/corpus"
	"github.com/dshills/huberman-health-mcp/internal/lexicon"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// transcriptRecord is one element of the transcripts resource.
type transcriptRecord struct {
	ID         string                    `json:"id"`
	Title      string                    `json:"title"`
	URL        string                    `json:"url"`
	Transcript []types.TranscriptSegment `json:"transcript"`
}

// topicIndex is the body of the health-topics resource.
type topicIndex struct {
	AvailableTopics  []string             `json:"available_topics"`
	TopicCounts      []lexicon.TopicCount `json:"topic_counts"`
	TotalVideos      int                  `json:"total_videos"`
	TotalTranscripts int                  `json:"total_transcripts"`
}

func (s *Server) handleReadVideos(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	store := s.assistant.Store()
	if store == nil {
		return nil, s.toMCPError("read videos", types.ErrDataUnavailable)
	}
	return jsonContents(request.Params.URI, store.Videos()), nil
}

func (s *Server) handleReadTranscripts(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	store := s.assistant.Store()
	if store == nil {
		return nil, s.toMCPError("read transcripts", types.ErrDataUnavailable)
	}

	records := make([]transcriptRecord, store.Len())
	for i := range records {
		v := store.VideoAt(i)
		records[i] = transcriptRecord{
			ID:         v.ID,
			Title:      v.Title,
			URL:        v.URL,
			Transcript: store.TranscriptAt(i),
		}
	}
	return jsonContents(request.Params.URI, records), nil
}

func (s *Server) handleReadHealthTopics(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	counts, err := s.assistant.TopicCounts()
	if err != nil {
		return nil, s.toMCPError("read health topics", err)
	}

	idx := topicIndex{
		AvailableTopics:  make([]string, 0, len(counts)),
		TopicCounts:      counts,
		TotalVideos:      s.assistant.Store().Len(),
		TotalTranscripts: transcriptCount(s.assistant.Store()),
	}
	if idx.TopicCounts == nil {
		idx.TopicCounts = []lexicon.TopicCount{}
	}
	for _, c := range counts {
		idx.AvailableTopics = append(idx.AvailableTopics, c.Topic)
	}
	return jsonContents(request.Params.URI, idx), nil
}

func jsonContents(uri string, v interface{}) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     formatJSON(v),
		},
	}
}

// transcriptCount counts videos with at least one transcript segment.
func transcriptCount(store *corpus.Store) int {
	n := 0
	for i := 0; i < store.Len(); i++ {
		if len(store.TranscriptAt(i)) > 0 {
			n++
		}
	}
	return n
}
