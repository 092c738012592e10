package bigquery

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

func sampleStatement(t *testing.T) *domain.Statement {
	t.Helper()

	transactions := []domain.Transaction{
		{
			TransactionInformation: domain.TransactionInformation{
				ParsedInformation: domain.ParsedInformation{
					TransactionDate: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
					Description:     "STARBUCKS",
					Amount:          -45,
					Balance:         955,
				},
				CategoryInformation: domain.CategoryInformation{
					Category:           domain.CategoryFood,
					Reasoning:          "coffee chain",
					CleanedDescription: "Starbucks Coffee",
					ConfidenceLevel:    domain.ConfidenceHigh,
				},
			},
			DescriptionEmbedding: []float32{0.25, -1},
		},
		{
			TransactionInformation: domain.TransactionInformation{
				ParsedInformation: domain.ParsedInformation{
					TransactionDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
					Description:     "SALARY",
					Amount:          2000,
					Balance:         2955,
				},
				CategoryInformation: domain.CategoryInformation{
					Category:           domain.CategoryIncome,
					Reasoning:          "monthly payroll",
					CleanedDescription: "Salary",
				},
			},
		},
	}
	artifacts := []domain.ExtractionArtifact{
		{StrategyName: "pdf_text", StrategyResult: "12/01 STARBUCKS -45.00"},
	}

	statement, err := domain.NewStatement("data/jan.pdf", transactions, artifacts)
	if err != nil {
		t.Fatalf("NewStatement failed: %v", err)
	}
	return statement
}

func TestBuildStatementRows(t *testing.T) {
	now := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	stmt, txs, artifacts := BuildStatementRows(sampleStatement(t), "stmt-1", now)

	if stmt.StatementID != "stmt-1" || stmt.SourceFile != "data/jan.pdf" {
		t.Errorf("statement row mismatched: %+v", stmt)
	}
	if stmt.StartDate != civil.DateOf(time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v, want 2024-01-12", stmt.StartDate)
	}
	if stmt.EndDate != civil.DateOf(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndDate = %v, want 2024-01-15", stmt.EndDate)
	}

	if len(txs) != 2 || len(artifacts) != 1 {
		t.Fatalf("got %d transactions and %d artifacts, want 2 and 1", len(txs), len(artifacts))
	}

	for _, tx := range txs {
		if tx.StatementID != "stmt-1" {
			t.Errorf("transaction %s does not reference its statement", tx.TransactionID)
		}
		if tx.TransactionID == "" {
			t.Error("transaction row is missing a generated id")
		}
	}
	if txs[0].TransactionID == txs[1].TransactionID {
		t.Error("transaction ids must be unique")
	}
	if artifacts[0].StatementID != "stmt-1" || artifacts[0].StrategyName != "pdf_text" {
		t.Errorf("artifact row mismatched: %+v", artifacts[0])
	}

	first := txs[0]
	if first.Amount.Cmp(big.NewRat(-45, 1)) != 0 || first.Balance.Cmp(big.NewRat(955, 1)) != 0 {
		t.Errorf("amount/balance = %v/%v, want -45/955", first.Amount, first.Balance)
	}
	if first.Category != "food" || first.CleanedDescription != "Starbucks Coffee" {
		t.Errorf("category fields mismatched: %+v", first)
	}
	if !first.ConfidenceLevel.Valid || first.ConfidenceLevel.StringVal != "high" {
		t.Errorf("ConfidenceLevel = %+v, want valid high", first.ConfidenceLevel)
	}
	if len(first.DescriptionEmbedding) != 2 || first.DescriptionEmbedding[0] != 0.25 {
		t.Errorf("DescriptionEmbedding = %v, want [0.25 -1]", first.DescriptionEmbedding)
	}

	// Absent optional values map to NULL / empty columns.
	second := txs[1]
	if second.ConfidenceLevel.Valid {
		t.Errorf("ConfidenceLevel = %+v, want NULL", second.ConfidenceLevel)
	}
	if second.DescriptionEmbedding != nil {
		t.Errorf("DescriptionEmbedding = %v, want empty", second.DescriptionEmbedding)
	}
}
