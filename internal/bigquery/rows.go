package bigquery

import (
	"math/big"
	"time"

	bq "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

// BuildStatementRows maps a statement aggregate onto its table rows. Child
// rows reference the parent through statementID; transaction and artifact ids
// are freshly generated.
func BuildStatementRows(statement *domain.Statement, statementID string, now time.Time) (StatementRow, []TransactionRow, []ArtifactRow) {
	stmt := StatementRow{
		StatementID: statementID,
		SourceFile:  statement.SourceFile,
		StartDate:   civil.DateOf(statement.StartDate),
		EndDate:     civil.DateOf(statement.EndDate),
		CreatedTS:   now,
	}

	txs := make([]TransactionRow, len(statement.Transactions))
	for i, tx := range statement.Transactions {
		txs[i] = TransactionRow{
			TransactionID:        uuid.NewString(),
			StatementID:          statementID,
			TransactionDate:      civil.DateOf(tx.TransactionDate),
			Description:          tx.Description,
			CleanedDescription:   tx.CleanedDescription,
			Amount:               ratFromFloat(tx.Amount),
			Balance:              ratFromFloat(tx.Balance),
			Category:             tx.Category.String(),
			Reasoning:            tx.Reasoning,
			ConfidenceLevel:      nullableString(string(tx.ConfidenceLevel)),
			DescriptionEmbedding: embeddingColumn(tx.DescriptionEmbedding),
			CreatedTS:            now,
		}
	}

	artifacts := make([]ArtifactRow, len(statement.Artifacts))
	for i, artifact := range statement.Artifacts {
		artifacts[i] = ArtifactRow{
			ArtifactID:     uuid.NewString(),
			StatementID:    statementID,
			StrategyName:   artifact.StrategyName,
			StrategyResult: artifact.StrategyResult,
			CreatedTS:      now,
		}
	}

	return stmt, txs, artifacts
}

func ratFromFloat(v float64) *big.Rat {
	return new(big.Rat).SetFloat64(v)
}

func nullableString(s string) bq.NullString {
	return bq.NullString{StringVal: s, Valid: s != ""}
}

func embeddingColumn(vector []float32) []float64 {
	if len(vector) == 0 {
		return nil
	}
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}
