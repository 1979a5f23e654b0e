package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/domain/entities"
	"github.com/lifeline-ai/backend/internal/domain/providers"
)

// ClassificationStage is one strategy in the classification fallback chain.
// Stages are attempted in order; a stage that is unavailable or returns an
// error is skipped for the current request only.
type ClassificationStage interface {
	// Source identifies the stage in the produced Detection
	Source() entities.ClassificationSource

	// Available reports whether the stage can be attempted at all
	Available() bool

	// Classify produces a category and confidence for the content
	Classify(ctx context.Context, content string) (*providers.ClassifiedEmergency, error)
}

// ClassificationService classifies emergency descriptions through an ordered
// chain of stages, ending in the keyword rules engine which never fails.
type ClassificationService struct {
	stages          []ClassificationStage
	rules           *RulesClassifier
	defaultCategory entities.EmergencyType
}

// NewClassificationService builds the default chain: trained model (when
// loaded), then the intelligence service (when configured), then rules.
// Either provider may be nil.
func NewClassificationService(model providers.ModelClassifier, intelligence providers.IntelligenceProvider, defaultCategory string) *ClassificationService {
	var stages []ClassificationStage
	if model != nil {
		stages = append(stages, &modelStage{model: model})
	}
	if intelligence != nil {
		stages = append(stages, &intelligenceStage{provider: intelligence})
	}
	return NewClassificationServiceWithStages(defaultCategory, stages...)
}

// NewClassificationServiceWithStages builds a service with an explicit stage
// order. The rules engine is always appended as the terminal stage.
func NewClassificationServiceWithStages(defaultCategory string, stages ...ClassificationStage) *ClassificationService {
	fallback := entities.EmergencyType(defaultCategory)
	if !fallback.IsValid() {
		fallback = entities.EmergencyUnknown
	}
	rules := NewRulesClassifier(fallback)
	return &ClassificationService{
		stages:          append(stages, rules),
		rules:           rules,
		defaultCategory: fallback,
	}
}

// Classify never fails: the rules engine terminates the chain, and any
// category an upstream stage returns outside the recognized catalog is
// coerced to the configured default before leaving this service.
func (s *ClassificationService) Classify(ctx context.Context, inputType entities.InputType, content string) *entities.Detection {
	for _, stage := range s.stages {
		if !stage.Available() {
			continue
		}

		result, err := stage.Classify(ctx, content)
		if err != nil {
			log.Debug().
				Err(err).
				Str("stage", string(stage.Source())).
				Msg("classification stage failed, falling through")
			recordFallbackMetric(ctx, "classification", string(stage.Source()))
			continue
		}

		return s.toDetection(result, stage.Source())
	}

	// Unreachable with the rules stage appended, but classification must
	// still produce an answer if the service was built with no stages.
	result, _ := s.rules.Classify(ctx, content)
	return s.toDetection(result, entities.SourceRules)
}

func (s *ClassificationService) toDetection(result *providers.ClassifiedEmergency, source entities.ClassificationSource) *entities.Detection {
	category := entities.EmergencyType(result.Category)
	if !category.IsValid() {
		category = s.defaultCategory
	}

	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &entities.Detection{
		EmergencyType: category,
		Confidence:    confidence,
		Reasoning:     result.Reasoning,
		Source:        source,
		DetectedAt:    time.Now().UTC(),
	}
}

type modelStage struct {
	model providers.ModelClassifier
}

func (s *modelStage) Source() entities.ClassificationSource { return entities.SourceTrainedModel }

func (s *modelStage) Available() bool { return s.model.Available() }

func (s *modelStage) Classify(ctx context.Context, content string) (*providers.ClassifiedEmergency, error) {
	prediction, err := s.model.Classify(ctx, content)
	if err != nil {
		return nil, err
	}
	return &providers.ClassifiedEmergency{
		Category:   prediction.Category,
		Confidence: prediction.Confidence,
		Reasoning:  "Trained model classification",
	}, nil
}

type intelligenceStage struct {
	provider providers.IntelligenceProvider
}

func (s *intelligenceStage) Source() entities.ClassificationSource {
	return entities.SourceIntelligence
}

func (s *intelligenceStage) Available() bool { return true }

func (s *intelligenceStage) Classify(ctx context.Context, content string) (*providers.ClassifiedEmergency, error) {
	return s.provider.Classify(ctx, content)
}
