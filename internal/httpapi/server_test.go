package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/huberman-health-mcp/internal/assistant"
	"github.com/dshills/huberman-health-mcp/internal/corpus"
	"github.com/dshills/huberman-health-mcp/internal/ranker"
	"github.com/dshills/huberman-health-mcp/internal/summary"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAssistant() *assistant.Assistant {
	store := corpus.New([]corpus.Entry{
		{
			Video: types.Video{ID: "a", Title: "Improving Sleep Quality", URL: "https://www.youtube.com/watch?v=a"},
			Transcript: []types.TranscriptSegment{
				{Text: "circadian rhythm basics", Start: 10},
			},
		},
		{
			Video: types.Video{ID: "b", Title: "Strength Training", URL: "https://www.youtube.com/watch?v=b"},
			Transcript: []types.TranscriptSegment{
				{Text: "sleep helps you recover", Start: 30},
			},
		},
	})
	return assistant.NewFromParts(store, nil, nil, ranker.DefaultConfig(), quietLogger())
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	h := NewHandler(newTestAssistant(), Options{Logger: quietLogger()})

	rec := post(t, h, `{"query": "sleep"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var ans assistant.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ans))
	assert.Equal(t, "sleep", ans.Query)
	assert.Equal(t, summary.Fallback, ans.Recommendation)
	assert.Equal(t, 2, ans.TotalResults)
	require.Len(t, ans.Videos, 2)
	assert.Equal(t, "a", ans.Videos[0].VideoID)
	assert.Equal(t, 1, ans.Videos[0].Rank)
	assert.Equal(t, "0:10", ans.Videos[0].Timestamp)
	assert.Equal(t, "https://www.youtube.com/watch?t=10s&v=a", ans.Videos[0].URL)

	rec = post(t, h, `{"query": "sleep", "max_results": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ans))
	assert.Len(t, ans.Videos, 1)
}

func TestSearchEndpointErrors(t *testing.T) {
	h := NewHandler(newTestAssistant(), Options{Logger: quietLogger()})

	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"malformed body", `{"query":`, http.StatusBadRequest, "invalid request body"},
		{"empty query", `{"query": "  "}`, http.StatusBadRequest, ""},
		{"zero max_results", `{"query": "sleep", "max_results": 0}`, http.StatusBadRequest, "max_results must be at least 1"},
		{"no match", `{"query": "quantum chromodynamics"}`, http.StatusNotFound, "No relevant content found for your query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["detail"])
			if tt.detail != "" {
				assert.Equal(t, tt.detail, body["detail"])
			}
		})
	}
}

// stubService returns a fixed error from Search.
type stubService struct {
	err    error
	status assistant.Status
}

func (s stubService) Search(ctx context.Context, query string, maxResults int) (*assistant.Answer, error) {
	return nil, s.err
}

func (s stubService) Health() assistant.Status { return s.status }

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", types.ErrInvalidArgument), http.StatusBadRequest},
		{types.ErrNoMatch, http.StatusNotFound},
		{types.ErrDataUnavailable, http.StatusServiceUnavailable},
		{types.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(stubService{err: tt.err}, Options{Logger: quietLogger()})
			rec := post(t, h, `{"query": "sleep"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	h := NewHandler(stubService{err: errors.New("secret path /var/db")}, Options{Logger: quietLogger()})
	rec := post(t, h, `{"query": "sleep"}`)
	assert.NotContains(t, rec.Body.String(), "/var/db")
}

func TestHealthAndRoot(t *testing.T) {
	h := NewHandler(newTestAssistant(), Options{Logger: quietLogger()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var st assistant.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, assistant.StatusHealthy, st.Status)
	assert.Equal(t, 2, st.VideosLoaded)
	assert.False(t, st.SemanticIndexReady)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var banner Banner
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banner))
	assert.Equal(t, Version, banner.Version)
	assert.Equal(t, []string{"/search", "/health"}, banner.Endpoints)
	assert.Equal(t, []string{"keyword_boost"}, banner.Features)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRootFeatures(t *testing.T) {
	h := NewHandler(stubService{status: assistant.Status{SemanticIndexReady: true, SummaryEnabled: true}}, Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var banner Banner
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banner))
	assert.Equal(t, []string{"semantic_search", "keyword_boost", "ai_recommendations"}, banner.Features)
}
