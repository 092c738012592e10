package pipeline

import (
	"strings"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

// ParsingInstructions is the parsing agent's system prompt.
const ParsingInstructions = "You are responsible for extracting transactions from a banking statement. " +
	"Each transaction may include a date, original description, amount, and balance. " +
	"You will be provided with one extraction per strategy, each labelled with the strategy that produced it; " +
	"they are different views of the SAME statement, so reconcile them rather than duplicating transactions.\n\n" +
	"Rules:\n" +
	"- Assign every transaction a short id (t1, t2, ...) unique within this statement.\n" +
	"- Dates must be ISO format YYYY-MM-DD.\n" +
	"- Amounts are signed: money in positive, money out negative.\n" +
	"- Only report values present in the extracted text. Never infer or fabricate a value.\n"

// CategorisingInstructions is the categorising agent's system prompt. The
// payload it sees carries descriptions and amounts only.
const CategorisingInstructions = "You are responsible for categorising banking transactions using their description and amount. " +
	"Additionally, return a cleaned and readable version of the original transaction description. " +
	"Tool-usage is highly encouraged. " +
	"Ensure your queries are well-formed and include relevant context, such as the transaction location, to improve search accuracy.\n\n" +
	"Rules:\n" +
	"- Keep each record's id exactly as given; return one record per input id.\n" +
	"- Category must be one of the allowed values; use \"unknown\" when unsure.\n" +
	"- Explain each choice briefly in the reasoning field.\n"

// parsingPayload concatenates the artifacts, each labelled by strategy name,
// so the parsing agent can attribute provenance across extraction views.
func parsingPayload(artifacts []domain.ExtractionArtifact) string {
	var b strings.Builder
	for _, a := range artifacts {
		b.WriteString(a.StrategyName)
		b.WriteString(":\n\n")
		b.WriteString(a.StrategyResult)
		b.WriteString("\n\n\n")
	}
	return b.String()
}

// categoryProjection is the minimal view of a parsed record the categorising
// agent receives. Dates and balances deliberately never reach that agent.
type categoryProjection struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func projectForCategorising(parsed []domain.Tracked[domain.ParsedInformation]) []categoryProjection {
	projection := make([]categoryProjection, len(parsed))
	for i, p := range parsed {
		projection[i] = categoryProjection{
			ID:          p.ID,
			Description: p.Data.Description,
			Amount:      p.Data.Amount,
		}
	}
	return projection
}
