package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/statement-ledger/internal/app"
	"github.com/dvloznov/statement-ledger/internal/config"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to the YAML config file (optional)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline for the run")
	flag.Parse()

	sources := flag.Args()
	if len(sources) == 0 {
		log.Fatal().Msg("usage: ingest [flags] <statement file or gs:// URI> ...")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring services failed")
	}
	defer a.Close()

	for _, source := range sources {
		log.Info().Str("source", source).Msg("starting ingestion")

		statement, err := a.IngestSource(ctx, source)
		if err != nil {
			log.Fatal().Err(err).Str("source", source).Msg("ingestion failed")
		}

		fmt.Printf("%s: %d transactions, %s to %s\n",
			source,
			len(statement.Transactions),
			statement.StartDate.Format("2006-01-02"),
			statement.EndDate.Format("2006-01-02"),
		)
	}
}
