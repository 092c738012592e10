package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-ledger/internal/embeddings"
)

// SimilarTransaction is one previously-categorised transaction returned by
// the similarity lookup tool.
type SimilarTransaction struct {
	Description        string `json:"description"`
	CleanedDescription string `json:"cleaned_description"`
	Category           string `json:"category"`
}

// SimilarityLookup finds stored transactions nearest to a query vector.
// Implemented by the BigQuery transaction repository.
type SimilarityLookup func(ctx context.Context, query []float32, k int) ([]SimilarTransaction, error)

// NewSimilarityTool gives the categorising agent a lookup over previously
// categorised transactions: the model passes a description, the tool embeds
// it and returns the nearest stored neighbors with their categories.
func NewSimilarityTool(embedder embeddings.Embedder, lookup SimilarityLookup, k int) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "similar_transactions",
			Description: "Finds previously categorised transactions whose descriptions are " +
				"semantically similar to the given description. Use it to keep category " +
				"choices consistent with earlier statements.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {
						Type:        genai.TypeString,
						Description: "The transaction description to look up.",
					},
				},
				Required: []string{"description"},
			},
		},
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			description, _ := args["description"].(string)
			if description == "" {
				return nil, fmt.Errorf("similar_transactions: description is required")
			}

			vector, err := embedder.Embed(ctx, description)
			if err != nil {
				return nil, fmt.Errorf("similar_transactions: embedding query: %w", err)
			}

			matches, err := lookup(ctx, vector, k)
			if err != nil {
				return nil, fmt.Errorf("similar_transactions: lookup: %w", err)
			}

			results := make([]map[string]any, len(matches))
			for i, m := range matches {
				results[i] = map[string]any{
					"description":         m.Description,
					"cleaned_description": m.CleanedDescription,
					"category":            m.Category,
				}
			}
			return map[string]any{"matches": results}, nil
		},
	}
}

// NewWebSearchTool exposes Gemini's native Google Search grounding, used by
// the categorising agent to resolve unfamiliar merchant names.
func NewWebSearchTool() Tool {
	return Tool{
		Native: &genai.Tool{GoogleSearch: &genai.GoogleSearch{}},
	}
}
