package providers

import (
	"context"
)

// IntelligenceProvider delegates triage decisions to an external
// natural-language service. Every method is a single bounded attempt: any
// timeout, transport error, or malformed payload is returned as an error
// and the caller falls through to the next chain stage. No retries.
type IntelligenceProvider interface {
	// Classify determines the emergency type for a description
	Classify(ctx context.Context, content string) (*ClassifiedEmergency, error)

	// ScoreSeverity assesses how severe a classified emergency is
	ScoreSeverity(ctx context.Context, emergencyType, content string) (*SeverityAssessment, error)

	// GenerateInstructions produces first-aid steps for a type and severity
	GenerateInstructions(ctx context.Context, emergencyType, severity string) ([]InstructionDraft, error)
}

// ClassifiedEmergency is a structured classification answer
type ClassifiedEmergency struct {
	Category   string
	Confidence float64
	Reasoning  string
}

// SeverityAssessment is a structured severity answer
type SeverityAssessment struct {
	Level     string
	Score     float64
	Reasoning string
}

// InstructionDraft is one generated first-aid step before the catalog
// assigns identifiers and renumbers the sequence
type InstructionDraft struct {
	Step        int
	Title       string
	Description string
	Duration    *int
}
