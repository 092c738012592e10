package pipeline

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

const dateFormat = "2006-01-02"

// Wire types mirror the response schemas exactly. Dates travel as ISO
// strings and are converted during transformation, not during decoding.

type parsedRecordWire struct {
	ID   string `json:"id"`
	Data struct {
		TransactionDate string  `json:"transaction_date"`
		Description     string  `json:"description"`
		Amount          float64 `json:"amount"`
		Balance         float64 `json:"balance"`
	} `json:"data"`
}

type parsedOutputWire struct {
	Records []parsedRecordWire `json:"parsed_information"`
}

type categoryRecordWire struct {
	ID   string `json:"id"`
	Data struct {
		Category           string `json:"category"`
		Reasoning          string `json:"reasoning"`
		CleanedDescription string `json:"cleaned_description"`
		ConfidenceLevel    string `json:"confidence_level,omitempty"`
	} `json:"data"`
}

type categoryOutputWire struct {
	Records []categoryRecordWire `json:"category_information"`
}

// ParsingSchema constrains the parsing agent's response.
func ParsingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"parsed_information": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id": {
							Type:        genai.TypeString,
							Description: "Correlation id, unique within this statement (t1, t2, ...).",
						},
						"data": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"transaction_date": {
									Type:        genai.TypeString,
									Description: "The exact date on which the transaction occurred, ISO format YYYY-MM-DD.",
								},
								"description": {
									Type:        genai.TypeString,
									Description: "The raw, original description of the transaction as extracted from the bank statement.",
								},
								"amount": {
									Type:        genai.TypeNumber,
									Description: "The monetary value of the transaction; money in positive, money out negative.",
								},
								"balance": {
									Type:        genai.TypeNumber,
									Description: "The account balance immediately after this transaction was applied.",
								},
							},
							Required: []string{"transaction_date", "description", "amount", "balance"},
						},
					},
					Required: []string{"id", "data"},
				},
			},
		},
		Required: []string{"parsed_information"},
	}
}

// CategorySchema constrains the categorising agent's response. The category
// field is a closed enum over the domain categories.
func CategorySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category_information": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id": {
							Type:        genai.TypeString,
							Description: "The correlation id of the parsed record being categorised, unchanged.",
						},
						"data": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"category": {
									Type:        genai.TypeString,
									Enum:        domain.CategoryValues(),
									Description: "The category the transaction belongs to. This should be thought-out well and not naively chosen.",
								},
								"reasoning": {
									Type:        genai.TypeString,
									Description: "The reason for choosing the category. Should be well-explained and reasonable.",
								},
								"cleaned_description": {
									Type:        genai.TypeString,
									Description: "A cleaned and normalised version of the transaction description.",
								},
								"confidence_level": {
									Type:        genai.TypeString,
									Enum:        domain.ConfidenceLevelValues(),
									Description: "How certain the categorisation is.",
								},
							},
							Required: []string{"category", "reasoning", "cleaned_description"},
						},
					},
					Required: []string{"id", "data"},
				},
			},
		},
		Required: []string{"category_information"},
	}
}

// transformParsed converts the wire records into domain records, enforcing
// run-unique, non-empty ids and parseable dates.
func transformParsed(wire parsedOutputWire) ([]domain.Tracked[domain.ParsedInformation], error) {
	seen := make(map[string]bool, len(wire.Records))
	records := make([]domain.Tracked[domain.ParsedInformation], 0, len(wire.Records))

	for i, r := range wire.Records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("transformParsed: record %d has empty id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("transformParsed: duplicate id %q", id)
		}
		seen[id] = true

		date, err := time.Parse(dateFormat, r.Data.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("transformParsed: record %q: invalid date %q: %w", id, r.Data.TransactionDate, err)
		}

		records = append(records, domain.Tracked[domain.ParsedInformation]{
			ID: id,
			Data: domain.ParsedInformation{
				TransactionDate: date,
				Description:     r.Data.Description,
				Amount:          r.Data.Amount,
				Balance:         r.Data.Balance,
			},
		})
	}

	return records, nil
}

// transformCategorised converts wire records into domain records. Category
// strings outside the closed set normalize to unknown; the schema enum makes
// that rare.
func transformCategorised(wire categoryOutputWire) ([]domain.Tracked[domain.CategoryInformation], error) {
	records := make([]domain.Tracked[domain.CategoryInformation], 0, len(wire.Records))

	for i, r := range wire.Records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("transformCategorised: record %d has empty id", i)
		}

		confidence := domain.ConfidenceLevel(r.Data.ConfidenceLevel)
		if !confidence.Valid() {
			return nil, fmt.Errorf("transformCategorised: record %q: invalid confidence level %q", id, r.Data.ConfidenceLevel)
		}

		records = append(records, domain.Tracked[domain.CategoryInformation]{
			ID: id,
			Data: domain.CategoryInformation{
				Category:           domain.ParseCategory(r.Data.Category),
				Reasoning:          r.Data.Reasoning,
				CleanedDescription: r.Data.CleanedDescription,
				ConfidenceLevel:    confidence,
			},
		})
	}

	return records, nil
}
