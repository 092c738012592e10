package bigquery

import (
	"context"
	"fmt"
	"strings"

	bq "cloud.google.com/go/bigquery"

	bqtypes "github.com/dvloznov/statement-ledger/internal/bigquery"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

// InsertStatementRows writes a statement aggregate as a single
// multi-statement transaction. Either every row lands or none does; a
// half-written statement is never observable.
func (r *Repository) InsertStatementRows(ctx context.Context, stmt bqtypes.StatementRow, txs []bqtypes.TransactionRow, artifacts []bqtypes.ArtifactRow) error {
	if len(txs) == 0 {
		return &PersistenceFailure{Op: "InsertStatementRows", Err: fmt.Errorf("statement %s has no transactions", stmt.StatementID)}
	}

	sql, params := buildStoreScript(r.table(statementsTable), r.table(transactionsTable), r.table(artifactsTable), stmt, txs, artifacts)
	if err := r.runScript(ctx, "InsertStatementRows", sql, params); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("statement_id", stmt.StatementID).
		Int("transactions", len(txs)).
		Int("artifacts", len(artifacts)).
		Msg("statement stored")
	return nil
}

// DeleteStatement removes a statement and everything it owns. Children go
// first so a failure partway through never strands orphaned rows.
func (r *Repository) DeleteStatement(ctx context.Context, statementID string) error {
	sql := strings.Join([]string{
		"BEGIN TRANSACTION;",
		fmt.Sprintf("DELETE FROM %s WHERE statement_id = @statement_id;", r.table(artifactsTable)),
		fmt.Sprintf("DELETE FROM %s WHERE statement_id = @statement_id;", r.table(transactionsTable)),
		fmt.Sprintf("DELETE FROM %s WHERE statement_id = @statement_id;", r.table(statementsTable)),
		"COMMIT TRANSACTION;",
	}, "\n")

	params := []bq.QueryParameter{{Name: "statement_id", Value: statementID}}
	if err := r.runScript(ctx, "DeleteStatement", sql, params); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("statement_id", statementID).Msg("statement deleted")
	return nil
}

// buildStoreScript renders the insert script for one statement aggregate. All
// values travel as query parameters; only table names are interpolated.
func buildStoreScript(statementsName, transactionsName, artifactsName string, stmt bqtypes.StatementRow, txs []bqtypes.TransactionRow, artifacts []bqtypes.ArtifactRow) (string, []bq.QueryParameter) {
	var sb strings.Builder
	params := []bq.QueryParameter{
		{Name: "stmt_id", Value: stmt.StatementID},
		{Name: "stmt_source_file", Value: stmt.SourceFile},
		{Name: "stmt_start_date", Value: stmt.StartDate},
		{Name: "stmt_end_date", Value: stmt.EndDate},
		{Name: "stmt_created_ts", Value: stmt.CreatedTS},
	}

	sb.WriteString("BEGIN TRANSACTION;\n")
	sb.WriteString(fmt.Sprintf(
		"INSERT INTO %s (statement_id, source_file, start_date, end_date, created_ts)\nVALUES (@stmt_id, @stmt_source_file, @stmt_start_date, @stmt_end_date, @stmt_created_ts);\n",
		statementsName,
	))

	sb.WriteString(fmt.Sprintf(
		"INSERT INTO %s (transaction_id, statement_id, transaction_date, description, cleaned_description, amount, balance, category, reasoning, confidence_level, description_embedding, created_ts)\nVALUES\n",
		transactionsName,
	))
	for i, tx := range txs {
		p := fmt.Sprintf("tx%d", i)

		embedding := tx.DescriptionEmbedding
		if embedding == nil {
			embedding = []float64{}
		}
		params = append(params,
			bq.QueryParameter{Name: p + "_id", Value: tx.TransactionID},
			bq.QueryParameter{Name: p + "_date", Value: tx.TransactionDate},
			bq.QueryParameter{Name: p + "_description", Value: tx.Description},
			bq.QueryParameter{Name: p + "_cleaned", Value: tx.CleanedDescription},
			bq.QueryParameter{Name: p + "_amount", Value: tx.Amount},
			bq.QueryParameter{Name: p + "_balance", Value: tx.Balance},
			bq.QueryParameter{Name: p + "_category", Value: tx.Category},
			bq.QueryParameter{Name: p + "_reasoning", Value: tx.Reasoning},
			bq.QueryParameter{Name: p + "_confidence", Value: tx.ConfidenceLevel},
			bq.QueryParameter{Name: p + "_embedding", Value: embedding},
		)

		sb.WriteString(fmt.Sprintf(
			"(@%s_id, @stmt_id, @%s_date, @%s_description, @%s_cleaned, @%s_amount, @%s_balance, @%s_category, @%s_reasoning, @%s_confidence, @%s_embedding, @stmt_created_ts)",
			p, p, p, p, p, p, p, p, p, p,
		))
		if i < len(txs)-1 {
			sb.WriteString(",\n")
		}
	}
	sb.WriteString(";\n")

	if len(artifacts) > 0 {
		sb.WriteString(fmt.Sprintf(
			"INSERT INTO %s (artifact_id, statement_id, strategy_name, strategy_result, created_ts)\nVALUES\n",
			artifactsName,
		))
		for i, artifact := range artifacts {
			p := fmt.Sprintf("art%d", i)
			params = append(params,
				bq.QueryParameter{Name: p + "_id", Value: artifact.ArtifactID},
				bq.QueryParameter{Name: p + "_strategy", Value: artifact.StrategyName},
				bq.QueryParameter{Name: p + "_result", Value: artifact.StrategyResult},
			)
			sb.WriteString(fmt.Sprintf("(@%s_id, @stmt_id, @%s_strategy, @%s_result, @stmt_created_ts)", p, p, p))
			if i < len(artifacts)-1 {
				sb.WriteString(",\n")
			}
		}
		sb.WriteString(";\n")
	}

	sb.WriteString("COMMIT TRANSACTION;")
	return sb.String(), params
}
