package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/adapters/cache"
	"github.com/lifeline-ai/backend/internal/adapters/providers/directory"
	"github.com/lifeline-ai/backend/internal/adapters/providers/model"
	"github.com/lifeline-ai/backend/internal/api/handlers"
	"github.com/lifeline-ai/backend/internal/api/routes"
	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/providers"
	"github.com/lifeline-ai/backend/internal/infrastructure/clients/openai"
	"github.com/lifeline-ai/backend/internal/infrastructure/clients/redis"
	"github.com/lifeline-ai/backend/internal/infrastructure/clients/typesense"
	"github.com/lifeline-ai/backend/internal/infrastructure/observability"
	"github.com/lifeline-ai/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Redis is optional; without it the directory adapters skip caching
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			log.Info().Msg("Redis client initialized")
		}
	}

	// Intelligence service; nil disables the corresponding chain stages
	var intelligence providers.IntelligenceProvider
	var transcriber providers.TranscriptionProvider
	var captioner providers.CaptionProvider
	if cfg.OpenAI.Enabled && cfg.OpenAI.APIKey != "" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("Intelligence service unavailable")
		} else {
			intelligence = openaiClient
			transcriber = openaiClient
			captioner = openaiClient
			log.Info().Str("model", cfg.OpenAI.Model).Msg("Intelligence client initialized")
		}
	}

	// Trained model artifact; absent or disabled means the stage is skipped
	var modelClassifier providers.ModelClassifier
	if cfg.Model.Enabled {
		modelClassifier = model.NewArtifactClassifier(cfg.Model.ArtifactPath)
	}

	// Facility directory, selected by configuration
	var facilityDirectory providers.HospitalQueryProvider
	switch cfg.Hospitals.Provider {
	case "overpass":
		facilityDirectory = directory.NewOverpassProvider(cfg.Hospitals.OverpassURL, cacheProvider)
		log.Info().Msg("Using Overpass hospital directory")
	case "typesense":
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, hospital search will use the synthetic generator")
		} else {
			provider := directory.NewTypesenseProvider(typesenseClient, cfg.Hospitals.MaxResults)
			if err := provider.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to initialize hospitals collection")
			}
			facilityDirectory = provider
			log.Info().Msg("Using Typesense hospital directory")
		}
	default:
		log.Info().Msg("Using synthetic hospital directory")
	}

	// Application services
	classification := services.NewClassificationService(modelClassifier, intelligence, cfg.Triage.DefaultCategory)
	severity := services.NewSeverityService(intelligence)
	firstAid := services.NewFirstAidService(intelligence)
	hospitals := services.NewHospitalService(facilityDirectory, directory.NewSyntheticProvider(), cfg.Hospitals.MaxResults)
	triage := services.NewTriageService(
		classification,
		severity,
		firstAid,
		hospitals,
		cfg.Triage.CriticalSeverityThreshold,
		cfg.Hospitals.DefaultRadiusKm,
		cfg.Triage.EstimatedResponseMinutes,
	)

	// HTTP layer
	emergencyHandler := handlers.NewEmergencyHandler(triage, firstAid)
	hospitalHandler := handlers.NewHospitalHandler(hospitals)
	voiceHandler := handlers.NewVoiceHandler(transcriber, triage, cfg.Media.MaxAudioDurationSeconds)
	imageHandler := handlers.NewImageHandler(captioner, triage, cfg.Media.MaxImageSizeBytes)

	router := routes.NewRouter(emergencyHandler, hospitalHandler, voiceHandler, imageHandler, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
