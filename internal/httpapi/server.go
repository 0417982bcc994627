// Package httpapi serves the search engine over HTTP.
//
// Routes:
//
//	POST /search   {"query": "...", "max_results": 3} -> assistant.Answer
//	GET  /health   capability status
//	GET  /         service banner
//
// Errors are JSON objects of the form {"detail": "..."}.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dshills/huberman-health-mcp/internal/assistant"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

const (
	// ServiceName names the service in spans and the banner.
	ServiceName = "huberman-health-api"
	// Version is the API version reported by the banner.
	Version = "2.0.0"

	maxBodyBytes = 1 << 20
)

// Service is the query surface the handlers need.
type Service interface {
	Search(ctx context.Context, query string, maxResults int) (*assistant.Answer, error)
	Health() assistant.Status
}

// SearchRequest is the JSON body for POST /search.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results,omitempty"`
}

// Banner is the response for GET /.
type Banner struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
	Features  []string `json:"features"`
}

// Options configures the handler.
type Options struct {
	CORSOrigin string
	Logger     *slog.Logger
}

// NewHandler builds the routed handler wrapped in the middleware chain.
func NewHandler(svc Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "httpapi")
	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", handleSearch(svc, logger))
	mux.HandleFunc("GET /health", handleHealth(svc))
	mux.HandleFunc("GET /{$}", handleRoot(svc))

	return Chain(mux,
		Recover(logger),
		RequestID(),
		Logger(logger),
		CORS(origin),
		OTel(ServiceName),
	)
}

func handleSearch(svc Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		maxResults := assistant.DefaultMaxResults
		if req.MaxResults != nil {
			if *req.MaxResults < 1 {
				writeError(w, http.StatusBadRequest, "max_results must be at least 1")
				return
			}
			maxResults = *req.MaxResults
		}

		answer, err := svc.Search(r.Context(), req.Query, maxResults)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				logger.Error("search failed", "error", err, "request_id", RequestIDFrom(r.Context()))
			}
			writeError(w, status, detailFor(status, err))
			return
		}

		writeJSON(w, http.StatusOK, answer)
	}
}

func handleHealth(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.Health())
	}
}

func handleRoot(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		features := []string{"keyword_boost"}
		st := svc.Health()
		if st.SemanticIndexReady {
			features = append([]string{"semantic_search"}, features...)
		}
		if st.SummaryEnabled {
			features = append(features, "ai_recommendations")
		}
		writeJSON(w, http.StatusOK, Banner{
			Message:   "Huberman Health AI Assistant - Search API",
			Version:   Version,
			Endpoints: []string{"/search", "/health"},
			Features:  features,
		})
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDataUnavailable), errors.Is(err, types.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func detailFor(status int, err error) string {
	switch status {
	case http.StatusNotFound:
		return "No relevant content found for your query"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
