package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/uidex/uidex/internal/metrics"
)

// OpenAIConfig holds the settings for an OpenAI-compatible embeddings API.
type OpenAIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
}

// OpenAI embeds text through an OpenAI-compatible embeddings endpoint.
type OpenAI struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAI builds the transport. BaseURL may point at any compatible
// provider; an empty one keeps the upstream default.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
	}
}

// Embed requests a single embedding vector.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          o.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if o.dimensions > 0 {
		req.Dimensions = o.dimensions
	}

	resp, err := o.client.CreateEmbeddings(ctx, req)
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", "error").Inc()
		return nil, errors.New("empty embedding response")
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("openai", "success").Inc()
	return resp.Data[0].Embedding, nil
}

// parseAPIError surfaces the status and message the provider returned
// instead of the client library's generic wrapper.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("embedding request failed: %w", err)
}
