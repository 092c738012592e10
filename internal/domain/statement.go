package domain

import (
	"fmt"
	"time"
)

// ExtractionArtifact is the raw text one extraction strategy produced for one
// source file. An empty StrategyResult means the strategy found nothing; that
// is a valid result, not an error. Artifacts are persisted as children of
// their Statement.
type ExtractionArtifact struct {
	StrategyName   string
	StrategyResult string
}

// Transaction is a finalized, persisted transaction: the consolidated
// information plus the embedding of its description computed after the
// pipeline completes.
type Transaction struct {
	TransactionInformation

	// DescriptionEmbedding indexes the raw description for similarity
	// search. Nil until the embedding step has run.
	DescriptionEmbedding []float32
}

// Statement is the aggregate root. It owns its transactions and the
// extraction artifacts they were parsed from; deleting a statement deletes
// both. StartDate and EndDate are derived from the transactions, never set
// directly, so a Statement can only be built once all transactions are known.
type Statement struct {
	SourceFile   string
	StartDate    time.Time
	EndDate      time.Time
	Transactions []Transaction
	Artifacts    []ExtractionArtifact
}

// NewStatement builds the aggregate, deriving the statement period as the
// min/max of the transaction dates.
func NewStatement(sourceFile string, transactions []Transaction, artifacts []ExtractionArtifact) (*Statement, error) {
	if len(transactions) == 0 {
		return nil, fmt.Errorf("NewStatement: statement %q has no transactions", sourceFile)
	}

	start := transactions[0].TransactionDate
	end := transactions[0].TransactionDate
	for _, t := range transactions[1:] {
		if t.TransactionDate.Before(start) {
			start = t.TransactionDate
		}
		if t.TransactionDate.After(end) {
			end = t.TransactionDate
		}
	}

	return &Statement{
		SourceFile:   sourceFile,
		StartDate:    start,
		EndDate:      end,
		Transactions: transactions,
		Artifacts:    artifacts,
	}, nil
}
