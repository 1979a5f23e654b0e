package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/domain/entities"
	"github.com/lifeline-ai/backend/internal/domain/providers"
)

// Keyword tiers for rule-based severity. The tiers are disjoint; each match
// raises the score within its band.
var (
	criticalKeywords = []string{
		"unconscious", "not breathing", "cardiac arrest", "severe bleeding",
		"can't breathe", "choking", "severe pain", "chest pain", "heart attack",
	}
	highKeywords = []string{
		"broken", "fracture", "burn", "poison", "severe", "urgent", "emergency",
	}
	moderateKeywords = []string{
		"pain", "hurt", "injury", "bleeding", "cut", "wound",
	}
)

// SeverityService scores how severe a classified emergency is, delegating to
// the intelligence service when possible and falling back to keyword rules.
type SeverityService struct {
	intelligence providers.IntelligenceProvider
}

// NewSeverityService creates a severity service. The intelligence provider
// may be nil, in which case only the rules engine runs.
func NewSeverityService(intelligence providers.IntelligenceProvider) *SeverityService {
	return &SeverityService{intelligence: intelligence}
}

// Score never fails. The returned level always reflects the tier decision
// made from the raw score; only the continuous score is weighted by the
// upstream classification confidence.
func (s *SeverityService) Score(ctx context.Context, emergencyType entities.EmergencyType, content string, confidence float64) *entities.SeverityResult {
	if s.intelligence != nil {
		if result, err := s.scoreWithIntelligence(ctx, emergencyType, content); err == nil {
			return result
		} else {
			log.Debug().Err(err).Msg("intelligence severity scoring failed, falling back to rules")
			recordFallbackMetric(ctx, "severity", string(entities.SourceIntelligence))
		}
	}
	return s.scoreWithRules(emergencyType, content, confidence)
}

func (s *SeverityService) scoreWithIntelligence(ctx context.Context, emergencyType entities.EmergencyType, content string) (*entities.SeverityResult, error) {
	assessment, err := s.intelligence.ScoreSeverity(ctx, string(emergencyType), content)
	if err != nil {
		return nil, err
	}

	// Strict validation: a level that is unknown or disagrees with the
	// score band counts as a malformed answer and triggers the fallback.
	return entities.NewSeverityResult(
		entities.SeverityLevel(assessment.Level),
		assessment.Score,
		assessment.Reasoning,
	)
}

func (s *SeverityService) scoreWithRules(emergencyType entities.EmergencyType, content string, confidence float64) *entities.SeverityResult {
	contentLower := strings.ToLower(content)

	criticalCount := countMatches(contentLower, criticalKeywords)
	highCount := countMatches(contentLower, highKeywords)
	moderateCount := countMatches(contentLower, moderateKeywords)

	var level entities.SeverityLevel
	var score float64
	switch {
	case criticalCount > 0 || emergencyType == entities.EmergencyCardiac || emergencyType == entities.EmergencyRespiratory:
		level = entities.SeverityCritical
		score = min(1.0, 0.8+float64(criticalCount)*0.05)
	case highCount > 0 || emergencyType == entities.EmergencyBleeding || emergencyType == entities.EmergencyFracture || emergencyType == entities.EmergencyBurn:
		level = entities.SeverityHigh
		score = min(0.79, 0.6+float64(highCount)*0.05)
	case moderateCount > 0:
		level = entities.SeverityModerate
		score = min(0.59, 0.4+float64(moderateCount)*0.05)
	default:
		level = entities.SeverityLow
		score = 0.3
	}

	result, err := entities.NewSeverityResult(level, score, "Rule-based severity assessment")
	if err != nil {
		// The tier formulas keep the score inside the level's band, so
		// this cannot happen; recover to the floor of the low band anyway.
		result = &entities.SeverityResult{Level: entities.SeverityLow, Score: 0.3}
	}

	return result.AdjustedBy(confidence)
}

func countMatches(content string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(content, keyword) {
			count++
		}
	}
	return count
}
