package extract

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/statement-ledger/internal/config"
	"github.com/dvloznov/statement-ledger/internal/domain"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

// Extractor runs the configured strategies over a source file and returns one
// artifact per strategy, in configuration order. Strategies are independent
// and run concurrently; the Extract call itself is synchronous.
type Extractor struct {
	strategies []Strategy
	policy     config.ExtractionPolicy
}

// NewExtractor builds an extractor. Strategy names must be unique.
func NewExtractor(policy config.ExtractionPolicy, strategies ...Strategy) (*Extractor, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("NewExtractor: at least one strategy is required")
	}

	seen := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		if seen[s.Name()] {
			return nil, fmt.Errorf("NewExtractor: duplicate strategy name %q", s.Name())
		}
		seen[s.Name()] = true
	}

	return &Extractor{strategies: strategies, policy: policy}, nil
}

// Extract produces one artifact per strategy for the file at path. An
// unreadable file is an ExtractionFailure regardless of policy. Under
// best-effort, a failing strategy is logged and recorded as an empty-result
// artifact; under fail-fast the first strategy error aborts the extraction.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.ExtractionArtifact, error) {
	log := logger.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		return nil, &ExtractionFailure{Path: path, Err: err}
	}

	results := make([]string, len(e.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range e.strategies {
		g.Go(func() error {
			text, err := s.Parse(gctx, path)
			if err != nil {
				if e.policy == config.PolicyFailFast {
					return fmt.Errorf("Extract: strategy %s: %w", s.Name(), err)
				}
				log.Warn().
					Str("strategy", s.Name()).
					Str("file", path).
					Err(err).
					Msg("extraction strategy failed, recording empty artifact")
				text = ""
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make([]domain.ExtractionArtifact, len(e.strategies))
	for i, s := range e.strategies {
		artifacts[i] = domain.ExtractionArtifact{
			StrategyName:   s.Name(),
			StrategyResult: results[i],
		}
	}
	return artifacts, nil
}
