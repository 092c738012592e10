package pipeline

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

// ReconciliationGap reports ids that appear in one stage's output but not the
// other's. Earlier revisions silently dropped parsed records the categoriser
// omitted; a gap now fails the run so no statement missing transactions is
// ever persisted.
type ReconciliationGap struct {
	// MissingCategorised are ids produced by parsing with no matching
	// category record.
	MissingCategorised []string

	// MissingParsed are ids in the categorised output with no matching
	// parsed record.
	MissingParsed []string
}

func (e *ReconciliationGap) Error() string {
	var parts []string
	if len(e.MissingCategorised) > 0 {
		parts = append(parts, fmt.Sprintf("ids never categorised: %s", strings.Join(e.MissingCategorised, ", ")))
	}
	if len(e.MissingParsed) > 0 {
		parts = append(parts, fmt.Sprintf("categorised ids never parsed: %s", strings.Join(e.MissingParsed, ", ")))
	}
	return "reconciliation gap: " + strings.Join(parts, "; ")
}

// Consolidate joins parsed and categorised records by id. The join is driven
// by the categorised set's order, which makes the output deterministic for
// identical inputs. Any id present on one side only yields a
// *ReconciliationGap and no output.
func Consolidate(
	parsed []domain.Tracked[domain.ParsedInformation],
	categorised []domain.Tracked[domain.CategoryInformation],
) ([]domain.TransactionInformation, error) {
	parsedByID := make(map[string]domain.ParsedInformation, len(parsed))
	for _, p := range parsed {
		parsedByID[p.ID] = p.Data
	}

	categorisedIDs := make(map[string]bool, len(categorised))
	for _, c := range categorised {
		categorisedIDs[c.ID] = true
	}

	gap := &ReconciliationGap{}
	for _, p := range parsed {
		if !categorisedIDs[p.ID] {
			gap.MissingCategorised = append(gap.MissingCategorised, p.ID)
		}
	}
	for _, c := range categorised {
		if _, ok := parsedByID[c.ID]; !ok {
			gap.MissingParsed = append(gap.MissingParsed, c.ID)
		}
	}
	if len(gap.MissingCategorised) > 0 || len(gap.MissingParsed) > 0 {
		return nil, gap
	}

	transactions := make([]domain.TransactionInformation, 0, len(categorised))
	for _, c := range categorised {
		transactions = append(transactions, domain.TransactionInformation{
			ParsedInformation:   parsedByID[c.ID],
			CategoryInformation: c.Data,
		})
	}

	return transactions, nil
}
