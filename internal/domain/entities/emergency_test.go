package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lifeline-ai/backend/internal/domain/entities"
	apperrors "github.com/lifeline-ai/backend/pkg/errors"
)

func TestEmergencyType_IsValid(t *testing.T) {
	for _, known := range entities.EmergencyTypes {
		assert.True(t, known.IsValid())
	}
	assert.False(t, entities.EmergencyType("zombie").IsValid())
	assert.False(t, entities.EmergencyType("").IsValid())
}

func TestLocation_Validate(t *testing.T) {
	valid := entities.Location{Latitude: 6.5244, Longitude: 3.3792}
	assert.NoError(t, valid.Validate())

	extremes := entities.Location{Latitude: -90, Longitude: 180}
	assert.NoError(t, extremes.Validate())

	badLat := entities.Location{Latitude: 91, Longitude: 0}
	assert.Error(t, badLat.Validate())

	badLon := entities.Location{Latitude: 0, Longitude: -181}
	assert.Error(t, badLon.Validate())
}

func TestEmergencyInput_Validate(t *testing.T) {
	input := entities.EmergencyInput{
		Type:      entities.InputText,
		Content:   "chest pain",
		Timestamp: time.Now(),
	}
	assert.NoError(t, input.Validate())

	empty := entities.EmergencyInput{Type: entities.InputText}
	err := empty.Validate()
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	whitespace := entities.EmergencyInput{Type: entities.InputText, Content: " \t\n "}
	err = whitespace.Validate()
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	badType := entities.EmergencyInput{Type: "telepathy", Content: "help"}
	assert.Error(t, badType.Validate())

	badLocation := entities.EmergencyInput{
		Type:     entities.InputText,
		Content:  "help",
		Location: &entities.Location{Latitude: 120, Longitude: 0},
	}
	err = badLocation.Validate()
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
