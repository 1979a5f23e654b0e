// Command evaluate replays a labeled emergency case set through the
// classification and severity stages and reports accuracy. By default it
// exercises the offline pipeline (trained model and rules); pass -ai to
// include the intelligence service.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/adapters/providers/model"
	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/providers"
	"github.com/lifeline-ai/backend/internal/evaluation"
	"github.com/lifeline-ai/backend/internal/infrastructure/clients/openai"
	"github.com/lifeline-ai/backend/internal/infrastructure/observability"
	"github.com/lifeline-ai/backend/pkg/config"
)

func main() {
	var file string
	var useAI bool
	flag.StringVar(&file, "file", "labeled_cases.json", "path to the labeled case set")
	flag.BoolVar(&useAI, "ai", false, "include the intelligence service in the chain")
	flag.Parse()

	observability.InitLogger("lifeline-evaluate", os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	cases, err := evaluation.LoadLabeledCases(file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load labeled cases")
	}
	if err := evaluation.ValidateLabeledCases(cases); err != nil {
		log.Fatal().Err(err).Msg("Labeled case set is invalid")
	}

	var intelligence providers.IntelligenceProvider
	if useAI && cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize intelligence client")
		}
		intelligence = client
	}

	var modelClassifier providers.ModelClassifier
	if cfg.Model.Enabled {
		modelClassifier = model.NewArtifactClassifier(cfg.Model.ArtifactPath)
	}

	classifier := services.NewClassificationService(modelClassifier, intelligence, cfg.Triage.DefaultCategory)
	severity := services.NewSeverityService(intelligence)

	runner := evaluation.NewRunner(classifier, severity)
	summary := runner.Run(context.Background(), cases)

	log.Info().
		Int("cases", summary.TotalCases).
		Float64("type_accuracy", summary.TypeAccuracy).
		Float64("level_accuracy", summary.LevelAccuracy).
		Float64("avg_level_distance", summary.AvgLevelDistance).
		Dur("avg_latency", summary.AvgLatency).
		Msg("Evaluation complete")

	for emergencyType, ts := range summary.ByType {
		log.Info().
			Str("expected_type", string(emergencyType)).
			Int("count", ts.Count).
			Float64("type_accuracy", ts.TypeAccuracy).
			Float64("level_accuracy", ts.LevelAccuracy).
			Msg("Per-type breakdown")
	}
}
