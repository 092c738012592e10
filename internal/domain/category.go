package domain

import "strings"

// Category is the closed set of transaction categories the categorising agent
// may assign. The set is fixed at compile time; the categories reference table
// in BigQuery is reconciled against it (see infra.SyncCategories).
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransfer      Category = "transfer"
	CategoryGroceries     Category = "groceries"
	CategoryRent          Category = "rent"
	CategoryUtilities     Category = "utilities"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryShopping      Category = "shopping"
	CategorySubscriptions Category = "subscriptions"
	CategoryTravel        Category = "travel"
	CategoryIncome        Category = "income"
	CategoryInvestment    Category = "investment"
	CategoryInsurance     Category = "insurance"
	CategoryFees          Category = "fees"
	CategoryCharity       Category = "charity"
	CategoryMiscellaneous Category = "miscellaneous"
	CategoryUnknown       Category = "unknown"
)

// AllCategories returns every valid category in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransfer,
		CategoryGroceries,
		CategoryRent,
		CategoryUtilities,
		CategoryTransport,
		CategoryEntertainment,
		CategoryHealth,
		CategoryEducation,
		CategoryShopping,
		CategorySubscriptions,
		CategoryTravel,
		CategoryIncome,
		CategoryInvestment,
		CategoryInsurance,
		CategoryFees,
		CategoryCharity,
		CategoryMiscellaneous,
		CategoryUnknown,
	}
}

// CategoryValues returns the category names as plain strings, for prompt
// building and schema enums.
func CategoryValues() []string {
	all := AllCategories()
	values := make([]string, len(all))
	for i, c := range all {
		values[i] = string(c)
	}
	return values
}

// ParseCategory normalizes a raw category string from the model. Values
// outside the closed set map to CategoryUnknown rather than failing the run;
// the model is constrained by schema, so this only catches casing drift.
func ParseCategory(raw string) Category {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range AllCategories() {
		if string(c) == normalized {
			return c
		}
	}
	return CategoryUnknown
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
