package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/statement-ledger/internal/app"
	"github.com/dvloznov/statement-ledger/internal/config"
	"github.com/dvloznov/statement-ledger/internal/jobs"
	"github.com/dvloznov/statement-ledger/internal/jobs/inmemory"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to the YAML config file (optional)")
	flag.Parse()

	sources := flag.Args()
	if len(sources) == 0 {
		log.Fatal().Msg("usage: worker [flags] <statement file or gs:// URI> ...")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring services failed")
	}
	defer a.Close()

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(cfg.QueueSize, cfg.WorkerCount, store)

	handler := func(ctx context.Context, job *jobs.IngestStatementJob) error {
		_, err := a.IngestSource(ctx, job.Source)
		return err
	}
	if err := queue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("starting workers failed")
	}

	for _, source := range sources {
		if err := queue.Publish(ctx, &jobs.IngestStatementJob{Source: source}); err != nil {
			log.Fatal().Err(err).Str("source", source).Msg("enqueueing failed")
		}
	}

	waitForDrain(ctx, store, len(sources))

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := queue.Stop(stopCtx); err != nil {
		log.Warn().Err(err).Msg("queue did not drain cleanly")
	}

	report(ctx, store)
}

// waitForDrain polls until every published job is in a terminal state or the
// context is cancelled.
func waitForDrain(ctx context.Context, store *inmemory.Store, total int) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			completed, _ := store.ListJobs(ctx, jobs.Filter{Status: jobs.JobStatusCompleted})
			failed, _ := store.ListJobs(ctx, jobs.Filter{Status: jobs.JobStatusFailed})
			if len(completed)+len(failed) >= total {
				return
			}
		}
	}
}

func report(ctx context.Context, store *inmemory.Store) {
	all, err := store.ListJobs(ctx, jobs.Filter{})
	if err != nil {
		return
	}
	for _, job := range all {
		if job.Error != "" {
			fmt.Printf("%s: %s (%s)\n", job.Source, job.Status, job.Error)
			continue
		}
		fmt.Printf("%s: %s\n", job.Source, job.Status)
	}
}
