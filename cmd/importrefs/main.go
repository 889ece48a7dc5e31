// Command importrefs bulk-loads part references from an XLSX workbook into
// the local database, queueing each row for sync like any other mutation.
//
// Usage: importrefs -file references.xlsx [-db ailogistic.db]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/froma1976/ailogistic/internal/service"
	"github.com/froma1976/ailogistic/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		file   = flag.String("file", "", "XLSX workbook to import (required)")
		dbPath = flag.String("db", "ailogistic.db", "local database file")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local database")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to open workbook")
	}
	defer f.Close()

	notifier := store.NewNotifier()
	svc := service.NewReferenceService(
		log.Logger,
		store.NewReferenceRepository(db),
		store.NewInventoryRepository(db),
		store.NewOutboxRepository(db),
		notifier,
	)

	summary, err := svc.ImportXLSX(context.Background(), f)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	log.Info().Int("imported", summary.Imported).Int("skipped", summary.Skipped).Msg("done")
}
