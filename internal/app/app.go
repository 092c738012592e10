package app

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-ledger/internal/agent"
	"github.com/dvloznov/statement-ledger/internal/config"
	"github.com/dvloznov/statement-ledger/internal/domain"
	"github.com/dvloznov/statement-ledger/internal/embeddings"
	"github.com/dvloznov/statement-ledger/internal/extract"
	"github.com/dvloznov/statement-ledger/internal/gcsfetch"
	infra "github.com/dvloznov/statement-ledger/internal/infra/bigquery"
	"github.com/dvloznov/statement-ledger/internal/pipeline"
)

// similarNeighbors is how many prior transactions the categorising agent sees
// per similarity lookup.
const similarNeighbors = 5

// App owns the wired services behind every binary: the Gen AI client, the
// BigQuery repository, the storage fetcher and the ingestion runner.
type App struct {
	Config   *config.Config
	GenAI    *genai.Client
	Repo     *infra.Repository
	Embedder *embeddings.GeminiEmbedder
	Fetcher  *gcsfetch.Fetcher
	Runner   *pipeline.Runner
}

// New wires an App from configuration. Close releases the clients it opened.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("app.New: creating genai client: %w", err)
	}

	repo, err := infra.NewRepository(ctx, cfg.ProjectID, cfg.Dataset, cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	fetcher, err := gcsfetch.NewFetcher(ctx, cfg.CredentialsFile)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("app.New: %w", err)
	}

	extractor, err := extract.NewExtractor(cfg.Policy,
		extract.NewPDFTextStrategy(),
		extract.NewTesseractStrategy("eng"),
	)
	if err != nil {
		repo.Close()
		fetcher.Close()
		return nil, fmt.Errorf("app.New: %w", err)
	}

	embedder := embeddings.NewGeminiEmbedder(client, cfg.EmbeddingModel)

	parsing := agent.New(client.Models, agent.Config{
		Name:           "parsing_agent",
		ModelName:      cfg.ParsingModel,
		Instructions:   pipeline.ParsingInstructions,
		ResponseSchema: pipeline.ParsingSchema(),
		MaxRetries:     1,
		CallTimeout:    cfg.CallTimeout,
	})

	categorising := agent.New(client.Models, agent.Config{
		Name:           "categorising_agent",
		ModelName:      cfg.ParsingModel,
		Instructions:   pipeline.CategorisingInstructions,
		ResponseSchema: pipeline.CategorySchema(),
		Tools: []agent.Tool{
			agent.NewSimilarityTool(embedder, repo.SimilarityLookup(), similarNeighbors),
			agent.NewWebSearchTool(),
		},
		MaxToolRounds: cfg.MaxToolRounds,
		MaxRetries:    1,
		CallTimeout:   cfg.CallTimeout,
	})

	runner := &pipeline.Runner{
		Extractor:    extractor,
		Parsing:      parsing,
		Categorising: categorising,
		Embedder:     embedder,
		Store:        &infra.StatementStore{Repo: repo},
	}

	return &App{
		Config:   cfg,
		GenAI:    client,
		Repo:     repo,
		Embedder: embedder,
		Fetcher:  fetcher,
		Runner:   runner,
	}, nil
}

// IngestSource runs the full pipeline over one source, fetching gs:// URIs
// into a temporary file first. The statement is recorded under the original
// source label either way.
func (a *App) IngestSource(ctx context.Context, source string) (*domain.Statement, error) {
	path, cleanup, err := a.Fetcher.Materialize(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("IngestSource: %w", err)
	}
	defer cleanup()

	return a.Runner.Ingest(ctx, source, path)
}

func (a *App) Close() {
	a.Fetcher.Close()
	a.Repo.Close()
}
