package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"partprice/internal/adapters/observability"
	"partprice/internal/adapters/search"
	"partprice/internal/app"
	"partprice/internal/batch"
	"partprice/internal/shared"
)

func main() {
	// stdout carries the report; logs go to stderr.
	// Set before Load so config warnings land there too.
	log.Logger = observability.NewLoggerTo(os.Stderr, os.Getenv("APP_ENV"))
	cfg := shared.Load()

	file := flag.String("file", "", "path to a CSV or XLSX file with part rows")
	workers := flag.Int("workers", cfg.CompareWorkers, "concurrent comparisons")
	flag.Parse()
	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, err := batch.Load(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("load input failed")
	}
	log.Info().
		Str("file", *file).
		Int("rows", len(rows)).
		Int("workers", *workers).
		Str("search", cfg.SearchBase).
		Msg("comparison starting")

	cmp := app.NewComparisonService(search.New(cfg.SearchBase, cfg.SearchTimeout))
	results := batch.CompareAll(ctx, cmp, rows, *workers)

	for _, r := range results {
		if err := batch.Render(os.Stdout, r); err != nil {
			log.Fatal().Err(err).Msg("write report failed")
		}
	}
	log.Info().Int("compared", len(results)).Msg("comparison completed")
}
