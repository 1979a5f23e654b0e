// Command indexer seeds the Typesense hospitals collection from a static
// JSON registry file, for deployments that maintain their own facility list
// instead of querying a public directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/adapters/providers/directory"
	"github.com/lifeline-ai/backend/internal/domain/providers"
	"github.com/lifeline-ai/backend/internal/infrastructure/clients/typesense"
	"github.com/lifeline-ai/backend/internal/infrastructure/observability"
	"github.com/lifeline-ai/backend/pkg/config"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "hospitals.json", "path to the hospital registry JSON file")
	flag.Parse()

	observability.InitLogger("lifeline-indexer", os.Getenv("APP_ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := indexOnce(ctx, file); err != nil {
		log.Fatal().Err(err).Msg("Indexing failed")
	}
}

func indexOnce(ctx context.Context, file string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	records, err := loadRegistry(file)
	if err != nil {
		return err
	}

	client, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	provider := directory.NewTypesenseProvider(client, cfg.Hospitals.MaxResults)
	if err := provider.InitSchema(ctx); err != nil {
		return err
	}

	indexed := 0
	for _, record := range records {
		if err := provider.Index(ctx, record); err != nil {
			log.Warn().Err(err).Str("id", record.ID).Msg("Failed to index hospital")
			continue
		}
		indexed++
	}

	log.Info().Int("indexed", indexed).Int("total", len(records)).Msg("Hospital registry indexed")
	return nil
}

func loadRegistry(file string) ([]*providers.HospitalRecord, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var records []*providers.HospitalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
