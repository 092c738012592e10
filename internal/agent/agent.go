package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-ledger/internal/logger"
)

// Model is the slice of the Gen AI surface the invoker needs. *genai.Models
// satisfies it; tests substitute fakes.
type Model interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Tool is an auxiliary capability the agent may call before producing its
// structured response. Either a locally-executed function tool (Declaration +
// Run) or a natively-executed genai tool such as GoogleSearch (Native set,
// Run nil).
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Run         func(ctx context.Context, args map[string]any) (map[string]any, error)
	Native      *genai.Tool
}

// Config describes one agent: its identity, instructions, response schema and
// run limits. Configuration is passed in explicitly per agent instance, never
// held in package state.
type Config struct {
	// Name identifies the agent in logs and errors, e.g. "parsing_agent".
	Name string

	// ModelName is the Gemini model to invoke.
	ModelName string

	// Instructions is the system prompt.
	Instructions string

	// ResponseSchema constrains and validates the final structured output.
	ResponseSchema *genai.Schema

	Tools []Tool

	// MaxToolRounds bounds tool-call round-trips per invocation. Zero means
	// no tool phase even if tools are configured.
	MaxToolRounds int

	// MaxRetries is the number of re-prompts after a schema violation.
	MaxRetries int

	// CallTimeout applies to each individual model call.
	CallTimeout time.Duration
}

// Agent wraps a language-model call with a required output schema: given a
// payload it returns a validated structured object or fails. It never retries
// indefinitely; tool rounds and re-prompts are both bounded.
type Agent struct {
	cfg   Config
	model Model
}

func New(model Model, cfg Config) *Agent {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Agent{cfg: cfg, model: model}
}

// Invoke sends payload to the model and decodes the schema-validated response
// into out. Tool round-trips run first, sequentially, up to MaxToolRounds;
// the structured response is then requested with the schema attached. A
// malformed response earns MaxRetries corrective re-prompts before the
// *SchemaViolation surfaces.
func (a *Agent) Invoke(ctx context.Context, payload string, out any) error {
	log := logger.FromContext(ctx).With().Str("agent", a.cfg.Name).Logger()

	contents := []*genai.Content{
		genai.NewContentFromText(payload, genai.RoleUser),
	}

	if len(a.cfg.Tools) > 0 && a.cfg.MaxToolRounds > 0 {
		var err error
		contents, err = a.runToolPhase(ctx, contents)
		if err != nil {
			return fmt.Errorf("Invoke: %s tool phase: %w", a.cfg.Name, err)
		}
	}

	var violation *SchemaViolation
	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		raw, err := a.generateStructured(ctx, contents)
		if err != nil {
			return fmt.Errorf("Invoke: %s: %w", a.cfg.Name, err)
		}

		reason := decode(raw, a.cfg.ResponseSchema, out)
		if reason == "" {
			return nil
		}

		violation = &SchemaViolation{Agent: a.cfg.Name, Reason: reason, Raw: raw}
		log.Warn().Int("attempt", attempt+1).Str("reason", reason).Msg("model output failed schema validation")

		// Re-prompt with the validation failure so the model can correct
		// itself on the next attempt.
		contents = append(contents,
			genai.NewContentFromText(raw, genai.RoleModel),
			genai.NewContentFromText(
				"The previous response did not match the required schema: "+reason+
					". Respond again with JSON conforming exactly to the schema.",
				genai.RoleUser,
			),
		)
	}

	return violation
}

// runToolPhase lets the model call its tools for a bounded number of rounds.
// Rounds are sequential; the phase ends as soon as the model stops requesting
// function calls.
func (a *Agent) runToolPhase(ctx context.Context, contents []*genai.Content) ([]*genai.Content, error) {
	log := logger.FromContext(ctx).With().Str("agent", a.cfg.Name).Logger()

	var genaiTools []*genai.Tool
	runners := make(map[string]func(context.Context, map[string]any) (map[string]any, error))
	var declarations []*genai.FunctionDeclaration
	for _, t := range a.cfg.Tools {
		if t.Native != nil {
			genaiTools = append(genaiTools, t.Native)
			continue
		}
		declarations = append(declarations, t.Declaration)
		runners[t.Declaration.Name] = t.Run
	}
	if len(declarations) > 0 {
		genaiTools = append(genaiTools, &genai.Tool{FunctionDeclarations: declarations})
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(a.cfg.Instructions, genai.RoleUser),
		Tools:             genaiTools,
	}

	for round := 0; round < a.cfg.MaxToolRounds; round++ {
		resp, err := a.generate(ctx, contents, cfg)
		if err != nil {
			return nil, err
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			// Keep any reasoning text the model produced; it is context
			// for the structured call.
			if text := resp.Text(); text != "" {
				contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
			}
			return contents, nil
		}

		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		for _, call := range calls {
			run, known := runners[call.Name]
			result := map[string]any{}
			if !known {
				result["error"] = fmt.Sprintf("unknown tool %q", call.Name)
			} else if out, err := run(ctx, call.Args); err != nil {
				// Tool failures are reported back to the model, not
				// fatal to the invocation.
				result["error"] = err.Error()
			} else {
				result = out
			}

			log.Debug().Str("tool", call.Name).Int("round", round+1).Msg("executed tool call")

			contents = append(contents, genai.NewContentFromParts(
				[]*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: result,
				}}},
				genai.RoleUser,
			))
		}
	}

	return contents, nil
}

// generateStructured performs the final schema-constrained call.
func (a *Agent) generateStructured(ctx context.Context, contents []*genai.Content) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(a.cfg.Instructions, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    a.cfg.ResponseSchema,
	}

	resp, err := a.generate(ctx, contents, cfg)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", a.cfg.ModelName)
	}
	return text, nil
}

func (a *Agent) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if a.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.CallTimeout)
		defer cancel()
	}
	return a.model.GenerateContent(ctx, a.cfg.ModelName, contents, cfg)
}

// MarshalPayload renders v as the JSON payload for an Invoke call.
func MarshalPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("MarshalPayload: %w", err)
	}
	return string(data), nil
}
