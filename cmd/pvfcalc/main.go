/*
main.go - One-shot PVF calculation

PURPOSE:
  Fetches the configured employee feed, derives the PVF fields for every
  record and prints them to stdout. Nothing is cached.

COMMAND-LINE FLAGS:
  -source  Feed URL or file path (overrides PVF_SOURCE_URL/PVF_SOURCE_FILE)
  -format  json | csv output (default json)
  -as-of   Pin the as-of date, YYYY-MM-DD (overrides PVF_AS_OF)

OUTPUT:
  json: one array, positional; records without an id print as {}
  csv:  header plus one row per record with an id

EXAMPLES:
  ./pvfcalc -source=assets/_files/employees.json -as-of=2023-06-15
  ./pvfcalc -format=csv > pvf.csv
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warp/pvf-engine/config"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/source"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	src := flag.String("source", "", "employee feed URL or file path")
	format := flag.String("format", config.FormatJSON, "output format: json or csv")
	asOf := flag.String("as-of", cfg.AsOf, "as-of date, YYYY-MM-DD")
	flag.Parse()

	cfg.AsOf = *asOf
	cfg.SetSource(*src)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *format, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("calculation failed")
	}
}

func run(ctx context.Context, cfg config.Config, format string, out io.Writer) error {
	src, err := source.New(cfg)
	if err != nil {
		return fmt.Errorf("build source: %w", err)
	}
	calc, err := cfg.Calculator()
	if err != nil {
		return err
	}

	records, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := pvf.Validate(rec); err != nil {
			log.Warn().Err(err).Msg("record will produce empty or NaN output")
		}
	}
	derived := calc.TransformAll(records)
	log.Info().Int("records", len(derived)).Time("as_of", calc.Now()).Msg("calculated")

	switch format {
	case config.FormatCSV:
		kept := make([]pvf.DerivedRecord, 0, len(derived))
		for _, d := range derived {
			if !d.IsEmpty() {
				kept = append(kept, d)
			}
		}
		return source.EncodeCSV(out, kept)
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(derived)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
