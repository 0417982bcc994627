// Package mcp implements the Model Context Protocol (MCP) server for the
// Huberman health search engine.
//
// The MCP server exposes three tools to AI assistants:
//   - search_health_content: Rank podcast episodes for a health question
//   - get_video_transcript: Return an episode's transcript with timestamps
//   - get_health_topics: Count episodes per health topic
//
// and three read-only resources:
//   - huberman://videos: video metadata (JSON)
//   - huberman://transcripts: every video with its transcript (JSON)
//   - huberman://health-topics: topic index and corpus totals (JSON)
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only; all logging goes to stderr.
//
// # Basic Usage
//
//	huberman mcp
//
// # Tool: search_health_content
//
//	Request:
//	{
//	  "name": "search_health_content",
//	  "arguments": {
//	    "query": "I have trouble sleeping",
//	    "max_results": 3,
//	    "search_mode": "hybrid"
//	  }
//	}
//
// The response is markdown meant for a model to read: one block per result
// with title, relevance score, playback URL, timestamp, context and
// description, followed by a health disclaimer. A query with no match
// returns a plain "No relevant content found" text rather than an error.
//
// # Tool: get_video_transcript
//
//	Request:
//	{
//	  "name": "get_video_transcript",
//	  "arguments": {"video_id": "abc123"}
//	}
//
//	Response:
//	**Transcript for: Master Your Sleep**
//
//	[0:00] Welcome to the Huberman Lab podcast
//	[0:05] where we discuss science
//
// # Error Codes
//
// Parameter problems are returned as JSON-RPC errors:
//
//	-32602  Invalid params (missing query, max_results out of range)
//	-32603  Internal error
//	-32001  Video not found
//	-32002  Corpus unavailable
//	-32003  Semantic search unavailable
//	-32004  Empty query
package mcp
