package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-ledger/internal/domain"
	"github.com/dvloznov/statement-ledger/internal/embeddings"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

// Extractor yields one artifact per strategy for a source file.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]domain.ExtractionArtifact, error)
}

// StatementStore persists the finished aggregate atomically.
type StatementStore interface {
	StoreStatement(ctx context.Context, statement *domain.Statement) error
}

// Runner drives one statement end to end: extraction, the three pipeline
// stages, description embeddings, aggregate construction and the single
// persistence write. Runs over different files are independent; a Runner may
// be shared between them.
type Runner struct {
	Extractor    Extractor
	Parsing      Invoker
	Categorising Invoker
	Embedder     embeddings.Embedder
	Store        StatementStore
}

// Ingest processes the statement file at path and persists the resulting
// aggregate under the source label. source and path differ when the file was
// fetched from remote storage first. Nothing is written unless every stage
// succeeds.
func (r *Runner) Ingest(ctx context.Context, source, path string) (*domain.Statement, error) {
	log := logger.FromContext(ctx).With().Str("source", source).Logger()
	ctx = logger.WithContext(ctx, log)

	artifacts, err := r.Extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("Ingest: %w", err)
	}

	state := &State{Artifacts: artifacts}
	if err := NewStatementPipeline(r.Parsing, r.Categorising).Run(ctx, state); err != nil {
		return nil, fmt.Errorf("Ingest: %w", err)
	}

	transactions := make([]domain.Transaction, len(state.Transactions))
	for i, info := range state.Transactions {
		vector, err := r.Embedder.Embed(ctx, info.Description)
		if err != nil {
			return nil, fmt.Errorf("Ingest: embedding description %q: %w", info.Description, err)
		}
		transactions[i] = domain.Transaction{
			TransactionInformation: info,
			DescriptionEmbedding:   vector,
		}
	}

	statement, err := domain.NewStatement(source, transactions, artifacts)
	if err != nil {
		return nil, fmt.Errorf("Ingest: %w", err)
	}

	if err := r.Store.StoreStatement(ctx, statement); err != nil {
		return nil, fmt.Errorf("Ingest: %w", err)
	}

	log.Info().
		Int("transactions", len(statement.Transactions)).
		Time("start_date", statement.StartDate).
		Time("end_date", statement.EndDate).
		Msg("statement ingested")

	return statement, nil
}
