package domain

// ConfidenceLevel expresses how certain the categorising agent is about an
// assignment. Optional: deployments that ask the agent for reasoning text
// instead leave it empty.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceUnsure ConfidenceLevel = "unsure"
)

// ConfidenceLevelValues returns the confidence levels as strings for schema
// enums and the reference table sync.
func ConfidenceLevelValues() []string {
	return []string{
		string(ConfidenceHigh),
		string(ConfidenceMedium),
		string(ConfidenceLow),
		string(ConfidenceUnsure),
	}
}

// Valid reports whether l is a declared confidence level or empty.
func (l ConfidenceLevel) Valid() bool {
	switch l {
	case "", ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceUnsure:
		return true
	}
	return false
}
