package model_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeline-ai/backend/internal/adapters/providers/model"
)

func writeArtifact(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "classifier.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func sampleArtifact(t *testing.T) string {
	return writeArtifact(t, map[string]interface{}{
		"version": 1,
		"classes": []string{"cardiac", "burn"},
		"priors":  map[string]float64{"cardiac": -0.7, "burn": -0.7},
		"token_weights": map[string]map[string]float64{
			"cardiac": {"chest": -1.0, "heart": -1.0, "pain": -2.0},
			"burn":    {"scalded": -1.0, "stove": -1.5, "pain": -2.5},
		},
		"unknown_weight": -6.0,
	})
}

func TestArtifactClassifier_UnavailableWithoutPath(t *testing.T) {
	classifier := model.NewArtifactClassifier("")

	assert.False(t, classifier.Available())

	_, err := classifier.Classify(context.Background(), "chest pain")
	assert.Error(t, err)
}

func TestArtifactClassifier_UnavailableWhenArtifactMissing(t *testing.T) {
	classifier := model.NewArtifactClassifier(filepath.Join(t.TempDir(), "nope.json"))

	assert.False(t, classifier.Available())
}

func TestArtifactClassifier_UnavailableWhenArtifactMalformed(t *testing.T) {
	path := writeArtifact(t, map[string]interface{}{
		"version": 1,
		"classes": []string{"cardiac"},
		// priors and token_weights missing for the declared class
		"priors":        map[string]float64{},
		"token_weights": map[string]map[string]float64{},
	})

	classifier := model.NewArtifactClassifier(path)

	assert.False(t, classifier.Available())
}

func TestArtifactClassifier_PredictsDominantClass(t *testing.T) {
	classifier := model.NewArtifactClassifier(sampleArtifact(t))
	require.True(t, classifier.Available())

	prediction, err := classifier.Classify(context.Background(), "sharp chest pain near the heart")
	require.NoError(t, err)

	assert.Equal(t, "cardiac", prediction.Category)
	assert.Greater(t, prediction.Confidence, 0.5)
	assert.LessOrEqual(t, prediction.Confidence, 1.0)
}

func TestArtifactClassifier_UnseenTokensStillScore(t *testing.T) {
	classifier := model.NewArtifactClassifier(sampleArtifact(t))

	prediction, err := classifier.Classify(context.Background(), "scalded my hand on the stove")
	require.NoError(t, err)

	assert.Equal(t, "burn", prediction.Category)
}

func TestArtifactClassifier_RejectsEmptyInput(t *testing.T) {
	classifier := model.NewArtifactClassifier(sampleArtifact(t))

	_, err := classifier.Classify(context.Background(), "   !!! ...")
	assert.Error(t, err)
}
