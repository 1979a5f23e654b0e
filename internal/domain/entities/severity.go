package entities

import (
	"fmt"

	"github.com/lifeline-ai/backend/pkg/errors"
)

// SeverityLevel is the discrete triage bucket for an emergency
type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "critical"
	SeverityHigh     SeverityLevel = "high"
	SeverityModerate SeverityLevel = "moderate"
	SeverityLow      SeverityLevel = "low"
)

// IsValid reports whether l is a recognized severity level
func (l SeverityLevel) IsValid() bool {
	switch l {
	case SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow:
		return true
	}
	return false
}

// LevelForScore maps a raw severity score to its banded level
func LevelForScore(score float64) SeverityLevel {
	switch {
	case score >= 0.8:
		return SeverityCritical
	case score >= 0.6:
		return SeverityHigh
	case score >= 0.4:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// SeverityResult pairs the discrete level with the continuous score.
// The level always reflects the banding of the raw score the result was
// built from; AdjustedBy weights only the score afterwards.
type SeverityResult struct {
	Level     SeverityLevel `json:"level"`
	Score     float64       `json:"score"`
	Reasoning string        `json:"reasoning,omitempty"`
}

// NewSeverityResult builds a severity result, enforcing that the raw score
// falls inside the band declared by the level.
func NewSeverityResult(level SeverityLevel, score float64, reasoning string) (*SeverityResult, error) {
	if !level.IsValid() {
		return nil, errors.NewInternalError(fmt.Sprintf("unknown severity level %q", level), nil)
	}
	if score < 0 || score > 1 {
		return nil, errors.NewInternalError(fmt.Sprintf("severity score %.2f out of range", score), nil)
	}
	if LevelForScore(score) != level {
		return nil, errors.NewInternalError(
			fmt.Sprintf("severity score %.2f disagrees with level %q", score, level), nil)
	}
	return &SeverityResult{Level: level, Score: score, Reasoning: reasoning}, nil
}

// AdjustedBy returns a copy with the score weighted by the upstream
// classification confidence. The level is deliberately left as decided
// from the raw score: it is the triage bucket, while the adjusted score
// is the continuous signal used for downstream thresholding.
func (r *SeverityResult) AdjustedBy(confidence float64) *SeverityResult {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return &SeverityResult{
		Level:     r.Level,
		Score:     r.Score * confidence,
		Reasoning: r.Reasoning,
	}
}
