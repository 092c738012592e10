package bigquery

import (
	"context"
	"fmt"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/option"
)

const (
	statementsTable   = "statements"
	transactionsTable = "transactions"
	artifactsTable    = "extraction_artifacts"
	categoriesTable   = "categories"
)

// PersistenceFailure wraps an error from the storage backend so callers can
// tell storage faults apart from pipeline faults.
type PersistenceFailure struct {
	Op  string
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceFailure) Unwrap() error { return e.Err }

// Repository talks to one BigQuery dataset. It implements the statement,
// search and category repository interfaces.
type Repository struct {
	client  *bq.Client
	dataset string
}

// NewRepository connects to BigQuery in the given project. credentialsFile may
// be empty, in which case application default credentials apply.
func NewRepository(ctx context.Context, projectID, dataset, credentialsFile string) (*Repository, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bq.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating BigQuery client: %w", err)
	}

	return &Repository{client: client, dataset: dataset}, nil
}

func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) table(name string) string {
	return fmt.Sprintf("`%s.%s`", r.dataset, name)
}

// runScript executes a multi-statement query and waits for it to finish.
func (r *Repository) runScript(ctx context.Context, op, sql string, params []bq.QueryParameter) error {
	q := r.client.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return &PersistenceFailure{Op: op, Err: err}
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return &PersistenceFailure{Op: op, Err: err}
	}
	if err := status.Err(); err != nil {
		return &PersistenceFailure{Op: op, Err: err}
	}
	return nil
}
