package entities

import (
	"strings"
	"time"

	"github.com/lifeline-ai/backend/pkg/errors"
)

// EmergencyType is the classified kind of emergency situation
type EmergencyType string

const (
	EmergencyMedical     EmergencyType = "medical"
	EmergencyTrauma      EmergencyType = "trauma"
	EmergencyCardiac     EmergencyType = "cardiac"
	EmergencyRespiratory EmergencyType = "respiratory"
	EmergencyBurn        EmergencyType = "burn"
	EmergencyPoisoning   EmergencyType = "poisoning"
	EmergencyFracture    EmergencyType = "fracture"
	EmergencyBleeding    EmergencyType = "bleeding"
	EmergencyUnknown     EmergencyType = "unknown"
)

// EmergencyTypes is the closed catalog of recognized emergency types.
// Order matters: classification ties are broken by position in this list.
var EmergencyTypes = []EmergencyType{
	EmergencyMedical,
	EmergencyTrauma,
	EmergencyCardiac,
	EmergencyRespiratory,
	EmergencyBurn,
	EmergencyPoisoning,
	EmergencyFracture,
	EmergencyBleeding,
	EmergencyUnknown,
}

// IsValid reports whether t is in the recognized catalog
func (t EmergencyType) IsValid() bool {
	for _, known := range EmergencyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InputType identifies how the emergency description reached the system
type InputType string

const (
	InputText  InputType = "text"
	InputVoice InputType = "voice"
	InputImage InputType = "image"
)

// IsValid reports whether t is a supported input type
func (t InputType) IsValid() bool {
	switch t {
	case InputText, InputVoice, InputImage:
		return true
	}
	return false
}

// ClassificationSource identifies which chain stage produced a classification
type ClassificationSource string

const (
	SourceTrainedModel ClassificationSource = "trained_model"
	SourceIntelligence ClassificationSource = "intelligence_service"
	SourceRules        ClassificationSource = "rules"
)

// Location represents geographical coordinates attached to a request
type Location struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Address   string   `json:"address,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// Validate checks the coordinate ranges
func (l *Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return errors.NewValidationError("latitude must be between -90 and 90")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return errors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// EmergencyInput is one free-form description of a medical situation.
// It is constructed once by the transport layer and never mutated.
type EmergencyInput struct {
	Type      InputType  `json:"type"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Location  *Location  `json:"location,omitempty"`
}

// Validate checks that the input can be triaged at all. Anything failing
// here is a request rejection, not a degraded triage result.
func (in *EmergencyInput) Validate() error {
	if !in.Type.IsValid() {
		return errors.NewValidationError("unsupported input type")
	}
	if strings.TrimSpace(in.Content) == "" {
		return errors.NewValidationError("content is required")
	}
	if in.Location != nil {
		if err := in.Location.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Detection is the outcome of classifying one emergency input
type Detection struct {
	EmergencyType EmergencyType        `json:"emergency_type"`
	Confidence    float64              `json:"confidence"`
	Reasoning     string               `json:"reasoning,omitempty"`
	Source        ClassificationSource `json:"source"`
	DetectedAt    time.Time            `json:"detected_at"`
}
