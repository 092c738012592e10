package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

type fakeExtractor struct {
	artifacts []domain.ExtractionArtifact
	err       error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) ([]domain.ExtractionArtifact, error) {
	return f.artifacts, f.err
}

type fakeEmbedder struct {
	calls []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	return []float32{1, 0, 0}, nil
}

type fakeStore struct {
	stored []*domain.Statement
}

func (f *fakeStore) StoreStatement(ctx context.Context, statement *domain.Statement) error {
	f.stored = append(f.stored, statement)
	return nil
}

func TestRunner_Ingest(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}

	r := &Runner{
		Extractor:    &fakeExtractor{artifacts: starbucksArtifacts()},
		Parsing:      &fakeInvoker{response: parsingResponse},
		Categorising: &fakeInvoker{response: categoryResponse},
		Embedder:     embedder,
		Store:        store,
	}

	statement, err := r.Ingest(context.Background(), "gs://statements/test.pdf", "/tmp/test.pdf")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if statement.SourceFile != "gs://statements/test.pdf" {
		t.Errorf("SourceFile = %q, want the original source label", statement.SourceFile)
	}

	if len(store.stored) != 1 {
		t.Fatalf("store called %d times, want 1", len(store.stored))
	}

	wantDate := time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)
	if !statement.StartDate.Equal(wantDate) || !statement.EndDate.Equal(wantDate) {
		t.Errorf("statement period = %v..%v, want %v", statement.StartDate, statement.EndDate, wantDate)
	}
	if len(statement.Artifacts) != 2 {
		t.Errorf("statement owns %d artifacts, want 2", len(statement.Artifacts))
	}

	// Every transaction carries an embedding of its raw description.
	if len(embedder.calls) != 1 || embedder.calls[0] != "STARBUCKS" {
		t.Errorf("embedded texts = %v, want [STARBUCKS]", embedder.calls)
	}
	if statement.Transactions[0].DescriptionEmbedding == nil {
		t.Error("transaction is missing its description embedding")
	}
}

func TestRunner_NoPersistenceOnGap(t *testing.T) {
	store := &fakeStore{}

	r := &Runner{
		Extractor: &fakeExtractor{artifacts: starbucksArtifacts()},
		Parsing: &fakeInvoker{response: `{
			"parsed_information": [
				{"id": "t1", "data": {"transaction_date": "2024-01-12", "description": "A", "amount": -1, "balance": 1}},
				{"id": "t2", "data": {"transaction_date": "2024-01-13", "description": "B", "amount": -2, "balance": 2}}
			]
		}`},
		Categorising: &fakeInvoker{response: `{
			"category_information": [
				{"id": "t1", "data": {"category": "food", "reasoning": "r", "cleaned_description": "A"}}
			]
		}`},
		Embedder: &fakeEmbedder{},
		Store:    store,
	}

	_, err := r.Ingest(context.Background(), "data/test.pdf", "data/test.pdf")

	var gap *ReconciliationGap
	if !errors.As(err, &gap) {
		t.Fatalf("expected ReconciliationGap, got %v", err)
	}
	if len(store.stored) != 0 {
		t.Error("nothing may be persisted for an incomplete run")
	}
}

func TestRunner_ExtractionFailureStopsRun(t *testing.T) {
	store := &fakeStore{}

	r := &Runner{
		Extractor:    &fakeExtractor{err: errors.New("file unreadable")},
		Parsing:      &fakeInvoker{response: parsingResponse},
		Categorising: &fakeInvoker{response: categoryResponse},
		Embedder:     &fakeEmbedder{},
		Store:        store,
	}

	if _, err := r.Ingest(context.Background(), "missing.pdf", "missing.pdf"); err == nil {
		t.Fatal("expected extraction failure to surface")
	}
	if len(store.stored) != 0 {
		t.Error("nothing may be persisted after an extraction failure")
	}
}
