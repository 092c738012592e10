package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-ledger/internal/agent"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

// ParsingStep turns the labelled extraction artifacts into id-tagged parsed
// transaction records.
type ParsingStep struct {
	Agent Invoker
}

func (s *ParsingStep) Name() string { return "parsing" }

func (s *ParsingStep) Execute(ctx context.Context, state *State) error {
	if len(state.Artifacts) == 0 {
		return fmt.Errorf("no extraction artifacts to parse")
	}

	var wire parsedOutputWire
	if err := s.Agent.Invoke(ctx, parsingPayload(state.Artifacts), &wire); err != nil {
		return err
	}

	parsed, err := transformParsed(wire)
	if err != nil {
		return err
	}
	if len(parsed) == 0 {
		return fmt.Errorf("parsing produced no transactions")
	}

	log := logger.FromContext(ctx)
	log.Info().Int("transactions", len(parsed)).Msg("parsing stage complete")

	state.Parsed = parsed
	return nil
}

// CategorisingStep assigns a category to every parsed record. It only ever
// sees the description+amount projection of the parsed data.
type CategorisingStep struct {
	Agent Invoker
}

func (s *CategorisingStep) Name() string { return "categorising" }

func (s *CategorisingStep) Execute(ctx context.Context, state *State) error {
	payload, err := agent.MarshalPayload(projectForCategorising(state.Parsed))
	if err != nil {
		return err
	}

	var wire categoryOutputWire
	if err := s.Agent.Invoke(ctx, payload, &wire); err != nil {
		return err
	}

	categorised, err := transformCategorised(wire)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().Int("records", len(categorised)).Msg("categorising stage complete")

	state.Categorised = categorised
	return nil
}

// ConsolidatingStep joins the two stage outputs by id into the final
// transaction records. After it completes the machine is terminal.
type ConsolidatingStep struct{}

func (s *ConsolidatingStep) Name() string { return "consolidating" }

func (s *ConsolidatingStep) Execute(ctx context.Context, state *State) error {
	transactions, err := Consolidate(state.Parsed, state.Categorised)
	if err != nil {
		return err
	}
	state.Transactions = transactions
	return nil
}
