package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// fakeModel records the last call and returns a canned answer.
type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

var results = []types.SearchResult{
	{Rank: 1, VideoID: "a", Title: "Master Your Sleep", Context: "get morning light", Timestamp: "1:01"},
	{Rank: 2, VideoID: "b", Title: "Stress Tools", Context: "physiological sigh", Timestamp: "12:30"},
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("how do I sleep better", results)

	assert.Contains(t, prompt, "User question: how do I sleep better")
	assert.Contains(t, prompt, "Video: Master Your Sleep\nContext: get morning light\nTimestamp: 1:01")
	assert.Contains(t, prompt, "Video: Stress Tools\nContext: physiological sigh\nTimestamp: 12:30")
	assert.Contains(t, prompt, "not medical advice")
}

func TestLLMSummarizer(t *testing.T) {
	model := &fakeModel{reply: "  Get bright light early in the day.  "}
	s := New(model, Config{}, nil)

	text, err := s.Summarize(context.Background(), "sleep", results)
	require.NoError(t, err)
	assert.Equal(t, "Get bright light early in the day.", text)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, DefaultMaxTokens, model.options.MaxTokens)
	assert.Equal(t, DefaultTemperature, model.options.Temperature)
}

func TestLLMSummarizerErrors(t *testing.T) {
	s := New(&fakeModel{err: errors.New("429 rate limited")}, Config{}, nil)
	_, err := s.Summarize(context.Background(), "sleep", results)
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)

	s = New(&fakeModel{reply: "   "}, Config{}, nil)
	_, err = s.Summarize(context.Background(), "sleep", results)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateFallback(t *testing.T) {
	text, err := Generate(context.Background(), nil, "sleep", results)
	require.NoError(t, err)
	assert.Equal(t, Fallback, text)

	failing := New(&fakeModel{err: errors.New("down")}, Config{}, nil)
	text, err = Generate(context.Background(), failing, "sleep", results)
	assert.Error(t, err)
	assert.Equal(t, Fallback, text)

	ok := New(&fakeModel{reply: "answer"}, Config{}, nil)
	text, err = Generate(context.Background(), ok, "sleep", results)
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestNewOpenRouterRequiresKey(t *testing.T) {
	_, err := NewOpenRouter(Config{}, nil)
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)

	s, err := NewOpenRouter(Config{APIKey: "key"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.config.Model)
	assert.Equal(t, DefaultBaseURL, s.config.BaseURL)
}
