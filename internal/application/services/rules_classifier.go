package services

import (
	"context"
	"strings"

	"github.com/lifeline-ai/backend/internal/domain/entities"
	"github.com/lifeline-ai/backend/internal/domain/providers"
)

// categoryKeywords pairs one emergency type with the phrases that indicate
// it. The table is an ordered slice, not a map: on tied match counts the
// earlier entry wins, and that tie-break is part of the contract.
type categoryKeywords struct {
	category entities.EmergencyType
	keywords []string
}

var classificationTable = []categoryKeywords{
	{entities.EmergencyCardiac, []string{"chest pain", "heart", "cardiac", "heart attack", "cardiac arrest", "palpitations"}},
	{entities.EmergencyRespiratory, []string{"breathing", "choke", "asthma", "shortness of breath", "can't breathe", "suffocating"}},
	{entities.EmergencyBleeding, []string{"bleeding", "blood", "cut", "wound", "hemorrhage", "laceration"}},
	{entities.EmergencyFracture, []string{"broken", "fracture", "bone", "dislocated", "sprain"}},
	{entities.EmergencyBurn, []string{"burn", "scald", "fire", "hot", "thermal"}},
	{entities.EmergencyPoisoning, []string{"poison", "toxic", "overdose", "ingested", "chemical"}},
	{entities.EmergencyTrauma, []string{"injury", "hurt", "accident", "fall", "hit", "struck"}},
	{entities.EmergencyMedical, []string{"fever", "pain", "sick", "ill", "nausea", "dizzy", "unconscious"}},
}

// RulesClassifier is the keyword-driven terminal stage of the classification
// chain. It has no dependencies and never fails.
type RulesClassifier struct {
	table           []categoryKeywords
	defaultCategory entities.EmergencyType
}

// NewRulesClassifier creates a rules classifier falling back to the given
// category when no keyword matches.
func NewRulesClassifier(defaultCategory entities.EmergencyType) *RulesClassifier {
	return &RulesClassifier{
		table:           classificationTable,
		defaultCategory: defaultCategory,
	}
}

// Source identifies this stage
func (c *RulesClassifier) Source() entities.ClassificationSource { return entities.SourceRules }

// Available always reports true
func (c *RulesClassifier) Available() bool { return true }

// Classify counts keyword matches per category in the lower-cased content.
// The category with the most matches wins; confidence grows with the match
// count and is capped at 0.9.
func (c *RulesClassifier) Classify(_ context.Context, content string) (*providers.ClassifiedEmergency, error) {
	contentLower := strings.ToLower(content)

	best := c.defaultCategory
	bestCount := 0
	for _, entry := range c.table {
		count := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(contentLower, keyword) {
				count++
			}
		}
		if count > bestCount {
			best = entry.category
			bestCount = count
		}
	}

	if bestCount == 0 {
		return &providers.ClassifiedEmergency{
			Category:   string(c.defaultCategory),
			Confidence: 0.3,
			Reasoning:  "Rule-based classification",
		}, nil
	}

	confidence := 0.5 + float64(bestCount)*0.1
	if confidence > 0.9 {
		confidence = 0.9
	}

	return &providers.ClassifiedEmergency{
		Category:   string(best),
		Confidence: confidence,
		Reasoning:  "Rule-based classification",
	}, nil
}
