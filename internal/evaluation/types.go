package evaluation

import (
	"time"

	"github.com/lifeline-ai/backend/internal/domain/entities"
)

// LabeledCase is one labeled emergency description with expected outcomes,
// used to measure the decision pipeline against a curated case set.
type LabeledCase struct {
	ID               string `json:"id"`
	Content          string `json:"content"`
	ExpectedType     string `json:"expected_type"`
	ExpectedSeverity string `json:"expected_severity"`
	Difficulty       string `json:"difficulty"` // easy, medium, hard
}

// CaseResult holds the evaluation outcome for a single case.
type CaseResult struct {
	CaseID        string
	Content       string
	ExpectedType  entities.EmergencyType
	DetectedType  entities.EmergencyType
	ExpectedLevel entities.SeverityLevel
	DetectedLevel entities.SeverityLevel
	TypeCorrect   bool
	LevelDistance int
	Latency       time.Duration
}

// Summary holds aggregate metrics across all labeled cases.
type Summary struct {
	TotalCases       int
	TypeAccuracy     float64
	LevelAccuracy    float64
	AvgLevelDistance float64
	AvgLatency       time.Duration
	ByType           map[entities.EmergencyType]*TypeSummary
}

// TypeSummary aggregates outcomes for one expected emergency type.
type TypeSummary struct {
	Count         int
	TypeAccuracy  float64
	LevelAccuracy float64
}
