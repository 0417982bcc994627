package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Search limits
const (
	DefaultMaxResults = 3
	MaxMaxResults     = 10
)

// searchHealthContentTool returns the tool definition for search_health_content
func searchHealthContentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_health_content",
		Description: "Search Andrew Huberman's podcast content for health-related information",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Health question or topic to search for (e.g., 'trouble sleeping', 'stress management')",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 3)",
					"default":     DefaultMaxResults,
					"minimum":     1,
					"maximum":     MaxMaxResults,
				},
				"search_mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: hybrid (semantic + keyword), semantic (vector only), or keyword (topic and word matching only)",
					"enum":        []string{"hybrid", "semantic", "keyword"},
					"default":     "hybrid",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getVideoTranscriptTool returns the tool definition for get_video_transcript
func getVideoTranscriptTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_video_transcript",
		Description: "Get the full transcript of a specific Huberman Lab video",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"video_id": map[string]interface{}{
					"type":        "string",
					"description": "YouTube video ID",
				},
			},
			Required: []string{"video_id"},
		},
	}
}

// getHealthTopicsTool returns the tool definition for get_health_topics
func getHealthTopicsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_health_topics",
		Description: "Get a list of health topics covered in Huberman Lab podcasts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// Resource URIs
const (
	VideosURI       = "huberman://videos"
	TranscriptsURI  = "huberman://transcripts"
	HealthTopicsURI = "huberman://health-topics"
)

func videosResource() mcp.Resource {
	return mcp.NewResource(VideosURI, "Huberman Lab Videos",
		mcp.WithResourceDescription("Andrew Huberman's podcast video metadata"),
		mcp.WithMIMEType("application/json"),
	)
}

func transcriptsResource() mcp.Resource {
	return mcp.NewResource(TranscriptsURI, "Huberman Lab Transcripts",
		mcp.WithResourceDescription("Full transcripts of Huberman Lab episodes"),
		mcp.WithMIMEType("application/json"),
	)
}

func healthTopicsResource() mcp.Resource {
	return mcp.NewResource(HealthTopicsURI, "Health Topics Index",
		mcp.WithResourceDescription("Categorized health topics covered in the podcast"),
		mcp.WithMIMEType("application/json"),
	)
}
