package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/statement-ledger/internal/config"
	"github.com/dvloznov/statement-ledger/internal/domain"
	infra "github.com/dvloznov/statement-ledger/internal/infra/bigquery"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to the YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infra.NewRepository(ctx, cfg.ProjectID, cfg.Dataset, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to BigQuery failed")
	}
	defer repo.Close()

	added, removed, err := repo.SyncCategories(ctx, domain.CategoryValues())
	if err != nil {
		log.Fatal().Err(err).Msg("category sync failed")
	}

	fmt.Printf("categories in sync: %d added, %d removed\n", len(added), len(removed))
	for _, name := range added {
		fmt.Println("  + " + name)
	}
	for _, name := range removed {
		fmt.Println("  - " + name)
	}
}
