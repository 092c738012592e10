package embeddings

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedder maps text to a fixed-length vector. Implementations must be
// deterministic for a fixed model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder produces embeddings through the Gemini embedding models.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder wraps an existing genai client. The client is shared with
// the agent invoker; this type does not own or close it.
func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: model}
}

// Embed returns the embedding vector for text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}},
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Embed: embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("Embed: model %q returned no embedding", e.model)
	}

	return resp.Embeddings[0].Values, nil
}
