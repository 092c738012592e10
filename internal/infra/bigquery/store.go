package bigquery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	bqtypes "github.com/dvloznov/statement-ledger/internal/bigquery"
	"github.com/dvloznov/statement-ledger/internal/domain"
)

// StatementStore adapts the repository to the ingestion pipeline: it assigns
// a fresh statement id, maps the aggregate onto rows and writes them in one
// transaction.
type StatementStore struct {
	Repo bqtypes.StatementRepository

	// Now overrides the row timestamp clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *StatementStore) StoreStatement(ctx context.Context, statement *domain.Statement) error {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	stmt, txs, artifacts := bqtypes.BuildStatementRows(statement, uuid.NewString(), now)
	if err := s.Repo.InsertStatementRows(ctx, stmt, txs, artifacts); err != nil {
		return fmt.Errorf("StoreStatement: %w", err)
	}
	return nil
}
