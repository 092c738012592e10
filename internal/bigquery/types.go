package bigquery

import (
	"context"
	"math/big"
	"time"

	bq "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// StatementRow is one row of the statements table. A statement row owns its
// transaction and artifact rows via statement_id.
type StatementRow struct {
	StatementID string     `bigquery:"statement_id"`
	SourceFile  string     `bigquery:"source_file"`
	StartDate   civil.Date `bigquery:"start_date"`
	EndDate     civil.Date `bigquery:"end_date"`
	CreatedTS   time.Time  `bigquery:"created_ts"`
}

// TransactionRow is one row of the transactions table. Amount and Balance are
// NUMERIC columns; DescriptionEmbedding is a repeated FLOAT64 column holding
// the description embedding, empty when no embedding was produced.
type TransactionRow struct {
	TransactionID        string              `bigquery:"transaction_id"`
	StatementID          string              `bigquery:"statement_id"`
	TransactionDate      civil.Date          `bigquery:"transaction_date"`
	Description          string              `bigquery:"description"`
	CleanedDescription   string              `bigquery:"cleaned_description"`
	Amount               *big.Rat            `bigquery:"amount"`
	Balance              *big.Rat            `bigquery:"balance"`
	Category             string              `bigquery:"category"`
	Reasoning            string              `bigquery:"reasoning"`
	ConfidenceLevel      bq.NullString       `bigquery:"confidence_level"`
	DescriptionEmbedding []float64           `bigquery:"description_embedding"`
	CreatedTS            time.Time           `bigquery:"created_ts"`
}

// ArtifactRow is one row of the extraction_artifacts table, preserving the
// raw output of a single extraction strategy for audit and replay.
type ArtifactRow struct {
	ArtifactID     string    `bigquery:"artifact_id"`
	StatementID    string    `bigquery:"statement_id"`
	StrategyName   string    `bigquery:"strategy_name"`
	StrategyResult string    `bigquery:"strategy_result"`
	CreatedTS      time.Time `bigquery:"created_ts"`
}

// CategoryRow is one row of the categories reference table.
type CategoryRow struct {
	Name      string    `bigquery:"name"`
	CreatedTS time.Time `bigquery:"created_ts"`
}

// NearestTransaction is a stored transaction row paired with its cosine
// distance to a query embedding.
type NearestTransaction struct {
	Row      TransactionRow
	Distance float64
}

// StatementRepository persists and removes whole statement aggregates.
type StatementRepository interface {
	InsertStatementRows(ctx context.Context, stmt StatementRow, txs []TransactionRow, artifacts []ArtifactRow) error
	DeleteStatement(ctx context.Context, statementID string) error
}

// TransactionSearchRepository answers similarity queries over stored
// transaction embeddings.
type TransactionSearchRepository interface {
	NearestTransactions(ctx context.Context, query []float32, k int) ([]NearestTransaction, error)
}

// CategoryRepository keeps the categories reference table aligned with the
// closed category set.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]string, error)
	SyncCategories(ctx context.Context, want []string) (added, removed []string, err error)
}
