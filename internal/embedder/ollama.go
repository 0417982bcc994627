package embedder

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OllamaProvider embeds through a local Ollama server's OpenAI-compatible
// API using langchaingo.
type OllamaProvider struct {
	embedder  embeddings.Embedder
	model     string
	dimension int
	retry     RetryConfig
}

// NewOllamaProvider connects to baseURL (DefaultOllamaBaseURL when empty).
func NewOllamaProvider(baseURL, model string, dimension int) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if dimension <= 0 {
		dimension = OllamaDimension
	}

	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken("ollama"),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	emb, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(MaxBatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}

	return &OllamaProvider{
		embedder:  emb,
		model:     model,
		dimension: dimension,
		retry:     DefaultRetryConfig(),
	}, nil
}

func (p *OllamaProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	return single(ctx, p, req)
}

func (p *OllamaProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	vectors, err := retryWithBackoff(ctx, p.retry, func() ([][]float32, error) {
		return p.embedder.EmbedDocuments(ctx, req.Texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrProviderFailed, p.retry.MaxRetries, err)
	}
	if len(vectors) != len(req.Texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrProviderFailed, len(vectors), len(req.Texts))
	}

	out := make([]*Embedding, len(vectors))
	for i, v := range vectors {
		out[i] = &Embedding{
			Vector:    v,
			Dimension: len(v),
			Provider:  ProviderOllama,
			Model:     p.model,
		}
	}

	return &BatchEmbeddingResponse{
		Embeddings: out,
		Provider:   ProviderOllama,
		Model:      p.model,
	}, nil
}

func (p *OllamaProvider) Dimension() int {
	return p.dimension
}

func (p *OllamaProvider) Provider() string {
	return ProviderOllama
}

func (p *OllamaProvider) Model() string {
	return p.model
}

func (p *OllamaProvider) Close() error {
	return nil
}
