// Package assistant assembles the search service at start-up and exposes
// the query surface shared by the HTTP API, the MCP server and the CLI.
//
// Start-up never fails because an optional capability is missing:
//
//   - corpus cannot be loaded: every query returns types.ErrDataUnavailable
//   - embedding provider is "none" or broken: hybrid search runs lexical-only
//   - no summary API key: answers carry summary.Fallback
//
// After New returns, all state is immutable and the Assistant is safe for
// concurrent use.
package assistant
