package bigquery

import (
	"context"
	"fmt"
	"sort"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/statement-ledger/internal/logger"
)

// ListCategories returns every category name in the reference table, sorted.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	sql := fmt.Sprintf("SELECT name FROM %s ORDER BY name", r.table(categoriesTable))

	it, err := r.client.Query(sql).Read(ctx)
	if err != nil {
		return nil, &PersistenceFailure{Op: "ListCategories", Err: err}
	}

	var names []string
	for {
		var row struct {
			Name string `bigquery:"name"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &PersistenceFailure{Op: "ListCategories", Err: err}
		}
		names = append(names, row.Name)
	}
	return names, nil
}

// SyncCategories reconciles the reference table against want: names missing
// from the table are inserted, names no longer in want are removed. The
// returned slices report what changed.
func (r *Repository) SyncCategories(ctx context.Context, want []string) (added, removed []string, err error) {
	existing, err := r.ListCategories(ctx)
	if err != nil {
		return nil, nil, err
	}

	missing, obsolete := diffCategories(existing, want)

	if len(missing) > 0 {
		sql := fmt.Sprintf(
			"INSERT INTO %s (name, created_ts) SELECT name, CURRENT_TIMESTAMP() FROM UNNEST(@names) AS name",
			r.table(categoriesTable),
		)
		params := []bq.QueryParameter{{Name: "names", Value: missing}}
		if err := r.runScript(ctx, "SyncCategories", sql, params); err != nil {
			return nil, nil, err
		}
	}

	if len(obsolete) > 0 {
		sql := fmt.Sprintf("DELETE FROM %s WHERE name IN UNNEST(@names)", r.table(categoriesTable))
		params := []bq.QueryParameter{{Name: "names", Value: obsolete}}
		if err := r.runScript(ctx, "SyncCategories", sql, params); err != nil {
			return nil, nil, err
		}
	}

	log := logger.FromContext(ctx)
	log.Info().
		Strs("added", missing).
		Strs("removed", obsolete).
		Msg("categories synchronised")
	return missing, obsolete, nil
}

// diffCategories splits the reconciliation into names to insert and names to
// delete. Both outputs are sorted so sync runs are deterministic.
func diffCategories(existing, want []string) (missing, obsolete []string) {
	existingSet := make(map[string]bool, len(existing))
	for _, name := range existing {
		existingSet[name] = true
	}
	wantSet := make(map[string]bool, len(want))
	for _, name := range want {
		wantSet[name] = true
	}

	for _, name := range want {
		if !existingSet[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range existing {
		if !wantSet[name] {
			obsolete = append(obsolete, name)
		}
	}

	sort.Strings(missing)
	sort.Strings(obsolete)
	return missing, obsolete
}
