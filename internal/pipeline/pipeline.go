package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-ledger/internal/domain"
)

// Invoker is a structured agent call: payload in, schema-validated object
// out. Satisfied by *agent.Agent; tests substitute fakes.
type Invoker interface {
	Invoke(ctx context.Context, payload string, out any) error
}

// State is the accumulated pipeline state. Each stage consumes the fields the
// previous stages filled and adds its own; nothing is mutated after a stage
// completes.
type State struct {
	// Artifacts is the extraction output the run started from.
	Artifacts []domain.ExtractionArtifact

	// Parsed is the parsing stage's output, keyed by run-unique ids.
	Parsed []domain.Tracked[domain.ParsedInformation]

	// Categorised is the categorising stage's output, keyed by the same ids.
	Categorised []domain.Tracked[domain.CategoryInformation]

	// Transactions is the consolidating stage's output.
	Transactions []domain.TransactionInformation
}

// Step is a single stage of the run.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// Pipeline executes its steps strictly in order over shared state. The first
// failing step aborts the run; there is no partial output, so nothing from an
// incomplete run can ever be persisted.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps sequentially.
func (p *Pipeline) Run(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline: %s stage: %w", step.Name(), err)
		}
	}
	return nil
}

// NewStatementPipeline wires the standard parsing -> categorising ->
// consolidating sequence around the two agents.
func NewStatementPipeline(parsing, categorising Invoker) *Pipeline {
	return NewPipeline(
		&ParsingStep{Agent: parsing},
		&CategorisingStep{Agent: categorising},
		&ConsolidatingStep{},
	)
}
