package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lifeline-ai/backend/internal/domain/entities"
)

// TriageService composes classification, severity scoring, instruction
// selection and facility ranking into one request-scoped decision. Every
// component absorbs its own upstream failures, so beyond input validation
// the orchestrator has no error path.
type TriageService struct {
	classifier *ClassificationService
	severity   *SeverityService
	firstAid   *FirstAidService
	hospitals  *HospitalService

	criticalThreshold        float64
	defaultRadiusKm          float64
	estimatedResponseMinutes int
}

// NewTriageService creates the orchestrator
func NewTriageService(
	classifier *ClassificationService,
	severity *SeverityService,
	firstAid *FirstAidService,
	hospitals *HospitalService,
	criticalThreshold float64,
	defaultRadiusKm float64,
	estimatedResponseMinutes int,
) *TriageService {
	if criticalThreshold <= 0 {
		criticalThreshold = 0.8
	}
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 10
	}
	if estimatedResponseMinutes <= 0 {
		estimatedResponseMinutes = 15
	}
	return &TriageService{
		classifier:               classifier,
		severity:                 severity,
		firstAid:                 firstAid,
		hospitals:                hospitals,
		criticalThreshold:        criticalThreshold,
		defaultRadiusKm:          defaultRadiusKm,
		estimatedResponseMinutes: estimatedResponseMinutes,
	}
}

// Triage runs the full decision pipeline for one emergency input. The only
// error it returns is an input-validation rejection; component failures are
// degraded inside the respective chains instead.
func (s *TriageService) Triage(ctx context.Context, input *entities.EmergencyInput) (*entities.EmergencyResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	detection := s.classifier.Classify(ctx, input.Type, input.Content)

	severity := s.severity.Score(ctx, detection.EmergencyType, input.Content, detection.Confidence)

	shouldCall := severity.Level == entities.SeverityCritical || severity.Score >= s.criticalThreshold

	instructions := s.firstAid.InstructionsFor(ctx, detection.EmergencyType, severity.Level)

	var nearest *entities.Hospital
	if input.Location != nil {
		hospitals, err := s.hospitals.FindNearby(ctx, *input.Location, s.defaultRadiusKm)
		if err != nil {
			return nil, err
		}
		if len(hospitals) > 0 {
			nearest = &hospitals[0]
		}
	}

	var estimated *int
	if shouldCall {
		minutes := s.estimatedResponseMinutes
		estimated = &minutes
	}

	log.Info().
		Str("emergency_type", string(detection.EmergencyType)).
		Str("severity", string(severity.Level)).
		Str("source", string(detection.Source)).
		Float64("score", severity.Score).
		Bool("should_call", shouldCall).
		Msg("triage decision")

	recordTriageMetric(ctx, detection, severity)

	return &entities.EmergencyResponse{
		Detection:                *detection,
		Severity:                 *severity,
		Instructions:             instructions,
		ShouldCallEmergency:      shouldCall,
		NearestHospital:          nearest,
		EstimatedResponseMinutes: estimated,
	}, nil
}

var (
	triageCounterOnce sync.Once
	triageCounter     metric.Int64Counter
)

func initTriageCounter() {
	meter := otel.Meter("github.com/lifeline-ai/backend/triage")
	counter, err := meter.Int64Counter(
		"triage.decision.count",
		metric.WithDescription("Count of triage decisions by type, severity and source"),
	)
	if err == nil {
		triageCounter = counter
	}
}

func recordTriageMetric(ctx context.Context, detection *entities.Detection, severity *entities.SeverityResult) {
	triageCounterOnce.Do(initTriageCounter)
	if triageCounter == nil {
		return
	}
	triageCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("triage.emergency_type", string(detection.EmergencyType)),
		attribute.String("triage.severity", string(severity.Level)),
		attribute.String("triage.source", string(detection.Source)),
	))
}
