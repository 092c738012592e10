package domain

import "time"

// Tracked pairs a stage output with the correlation id assigned during
// parsing. The id is threaded unchanged through categorising and consumed by
// consolidation; it is never persisted.
type Tracked[T any] struct {
	ID   string `json:"id"`
	Data T      `json:"data"`
}

// ParsedInformation is one transaction as read off the statement text. Values
// must be traceable to the extracted text; the parsing agent is instructed
// never to infer or fabricate them.
type ParsedInformation struct {
	// TransactionDate is the date the transaction occurred (day precision).
	TransactionDate time.Time `json:"transaction_date"`

	// Description is the raw statement description, unmodified.
	Description string `json:"description"`

	// Amount is signed: money in positive, money out negative.
	Amount float64 `json:"amount"`

	// Balance is the account balance immediately after the transaction.
	Balance float64 `json:"balance"`
}

// CategoryInformation is the categorising agent's output for one transaction.
// It is derived from description and amount only.
type CategoryInformation struct {
	Category Category `json:"category"`

	// Reasoning explains the category choice.
	Reasoning string `json:"reasoning"`

	// CleanedDescription is a readable, normalized form of the raw
	// description (e.g. "CARD 1234 STARBUCKS LON" -> "Starbucks Coffee").
	CleanedDescription string `json:"cleaned_description"`

	// ConfidenceLevel is optional; see ConfidenceLevel.
	ConfidenceLevel ConfidenceLevel `json:"confidence_level,omitempty"`
}

// TransactionInformation joins ParsedInformation and CategoryInformation for
// a single id. It is the consolidating stage's output unit.
type TransactionInformation struct {
	ParsedInformation
	CategoryInformation
}
