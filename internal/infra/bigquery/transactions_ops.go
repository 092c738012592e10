package bigquery

import (
	"context"
	"fmt"

	"google.golang.org/api/iterator"

	"github.com/dvloznov/statement-ledger/internal/agent"
	bqtypes "github.com/dvloznov/statement-ledger/internal/bigquery"
	"github.com/dvloznov/statement-ledger/internal/embeddings"
)

// NearestTransactions returns the k stored transactions whose description
// embeddings lie closest to query by cosine distance. Candidate rows are
// fetched from BigQuery and ranked here, which keeps the distance definition
// in one place and works on datasets without a vector index.
func (r *Repository) NearestTransactions(ctx context.Context, query []float32, k int) ([]bqtypes.NearestTransaction, error) {
	sql := fmt.Sprintf(
		"SELECT transaction_id, statement_id, transaction_date, description, cleaned_description, amount, balance, category, reasoning, confidence_level, description_embedding, created_ts FROM %s WHERE ARRAY_LENGTH(description_embedding) > 0",
		r.table(transactionsTable),
	)

	it, err := r.client.Query(sql).Read(ctx)
	if err != nil {
		return nil, &PersistenceFailure{Op: "NearestTransactions", Err: err}
	}

	var rows []bqtypes.TransactionRow
	for {
		var row bqtypes.TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &PersistenceFailure{Op: "NearestTransactions", Err: err}
		}
		rows = append(rows, row)
	}

	return rankNearest(query, rows, k), nil
}

// rankNearest orders rows by cosine distance to query and keeps the k
// closest. Rows whose embedding dimension does not match the query are
// skipped.
func rankNearest(query []float32, rows []bqtypes.TransactionRow, k int) []bqtypes.NearestTransaction {
	candidates := make([][]float32, len(rows))
	for i, row := range rows {
		vector := make([]float32, len(row.DescriptionEmbedding))
		for j, v := range row.DescriptionEmbedding {
			vector[j] = float32(v)
		}
		candidates[i] = vector
	}

	neighbors := embeddings.TopK(query, candidates, k)
	nearest := make([]bqtypes.NearestTransaction, len(neighbors))
	for i, n := range neighbors {
		nearest[i] = bqtypes.NearestTransaction{Row: rows[n.Index], Distance: n.Distance}
	}
	return nearest
}

// SimilarityLookup exposes nearest-transaction search in the shape the
// categorising agent's tool expects.
func (r *Repository) SimilarityLookup() agent.SimilarityLookup {
	return func(ctx context.Context, query []float32, k int) ([]agent.SimilarTransaction, error) {
		nearest, err := r.NearestTransactions(ctx, query, k)
		if err != nil {
			return nil, err
		}

		similar := make([]agent.SimilarTransaction, len(nearest))
		for i, n := range nearest {
			similar[i] = agent.SimilarTransaction{
				Description:        n.Row.Description,
				CleanedDescription: n.Row.CleanedDescription,
				Category:           n.Row.Category,
			}
		}
		return similar, nil
	}
}
