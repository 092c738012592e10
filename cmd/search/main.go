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
	query := flag.String("query", "", "free-text description to search for")
	k := flag.Int("k", 10, "number of neighbors to return")
	flag.Parse()

	if *query == "" {
		log.Fatal().Msg("usage: search -query <text> [-k N]")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring services failed")
	}
	defer a.Close()

	vector, err := a.Embedder.Embed(ctx, *query)
	if err != nil {
		log.Fatal().Err(err).Msg("embedding the query failed")
	}

	nearest, err := a.Repo.NearestTransactions(ctx, vector, *k)
	if err != nil {
		log.Fatal().Err(err).Msg("similarity search failed")
	}

	if len(nearest) == 0 {
		fmt.Println("no embedded transactions stored yet")
		return
	}
	for _, n := range nearest {
		fmt.Printf("%.4f  %-12s  %s  (%s)\n",
			n.Distance, n.Row.Category, n.Row.Description, n.Row.CleanedDescription)
	}
}
