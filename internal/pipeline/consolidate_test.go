package pipeline

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

func trackedParsed(id, description string, amount float64) domain.Tracked[domain.ParsedInformation] {
	return domain.Tracked[domain.ParsedInformation]{
		ID: id,
		Data: domain.ParsedInformation{
			TransactionDate: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
			Description:     description,
			Amount:          amount,
			Balance:         955,
		},
	}
}

func trackedCategory(id string, category domain.Category) domain.Tracked[domain.CategoryInformation] {
	return domain.Tracked[domain.CategoryInformation]{
		ID: id,
		Data: domain.CategoryInformation{
			Category:           category,
			Reasoning:          "matched merchant name",
			CleanedDescription: "Cleaned " + id,
		},
	}
}

func TestConsolidate_JoinsByID(t *testing.T) {
	parsed := []domain.Tracked[domain.ParsedInformation]{
		trackedParsed("t1", "STARBUCKS", -45),
		trackedParsed("t2", "SALARY", 2000),
	}
	categorised := []domain.Tracked[domain.CategoryInformation]{
		trackedCategory("t2", domain.CategoryIncome),
		trackedCategory("t1", domain.CategoryFood),
	}

	got, err := Consolidate(parsed, categorised)
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}

	// Output follows categorised order.
	if got[0].Description != "SALARY" || got[0].Category != domain.CategoryIncome {
		t.Errorf("first transaction mismatched: %+v", got[0])
	}
	if got[1].Description != "STARBUCKS" || got[1].Category != domain.CategoryFood {
		t.Errorf("second transaction mismatched: %+v", got[1])
	}
}

func TestConsolidate_GapWhenCategorisingOmitsID(t *testing.T) {
	parsed := []domain.Tracked[domain.ParsedInformation]{
		trackedParsed("t1", "STARBUCKS", -45),
		trackedParsed("t2", "SALARY", 2000),
	}
	categorised := []domain.Tracked[domain.CategoryInformation]{
		trackedCategory("t1", domain.CategoryFood),
	}

	_, err := Consolidate(parsed, categorised)

	var gap *ReconciliationGap
	if !errors.As(err, &gap) {
		t.Fatalf("expected ReconciliationGap, got %v", err)
	}
	if len(gap.MissingCategorised) != 1 || gap.MissingCategorised[0] != "t2" {
		t.Errorf("MissingCategorised = %v, want [t2]", gap.MissingCategorised)
	}
	if len(gap.MissingParsed) != 0 {
		t.Errorf("MissingParsed = %v, want empty", gap.MissingParsed)
	}
}

func TestConsolidate_GapWhenCategorisingInventsID(t *testing.T) {
	parsed := []domain.Tracked[domain.ParsedInformation]{
		trackedParsed("t1", "STARBUCKS", -45),
	}
	categorised := []domain.Tracked[domain.CategoryInformation]{
		trackedCategory("t1", domain.CategoryFood),
		trackedCategory("t9", domain.CategoryUnknown),
	}

	_, err := Consolidate(parsed, categorised)

	var gap *ReconciliationGap
	if !errors.As(err, &gap) {
		t.Fatalf("expected ReconciliationGap, got %v", err)
	}
	if len(gap.MissingParsed) != 1 || gap.MissingParsed[0] != "t9" {
		t.Errorf("MissingParsed = %v, want [t9]", gap.MissingParsed)
	}
}

func TestConsolidate_Idempotent(t *testing.T) {
	parsed := []domain.Tracked[domain.ParsedInformation]{
		trackedParsed("t1", "STARBUCKS", -45),
		trackedParsed("t2", "SALARY", 2000),
		trackedParsed("t3", "UBER", -15.5),
	}
	categorised := []domain.Tracked[domain.CategoryInformation]{
		trackedCategory("t3", domain.CategoryTransport),
		trackedCategory("t1", domain.CategoryFood),
		trackedCategory("t2", domain.CategoryIncome),
	}

	first, err := Consolidate(parsed, categorised)
	if err != nil {
		t.Fatalf("first Consolidate failed: %v", err)
	}
	second, err := Consolidate(parsed, categorised)
	if err != nil {
		t.Fatalf("second Consolidate failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Consolidate is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
