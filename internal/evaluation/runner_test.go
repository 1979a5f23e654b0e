package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/entities"
)

func TestRunner_RulesPipelineOnLabeledCases(t *testing.T) {
	classifier := services.NewClassificationService(nil, nil, "unknown")
	severity := services.NewSeverityService(nil)
	runner := NewRunner(classifier, severity)

	cases := []LabeledCase{
		{ID: "c1", Content: "crushing chest pain", ExpectedType: "cardiac", ExpectedSeverity: "critical", Difficulty: "easy"},
		{ID: "c2", Content: "he is choking and can't breathe", ExpectedType: "respiratory", ExpectedSeverity: "critical", Difficulty: "easy"},
		{ID: "c3", Content: "deep cut, lots of blood", ExpectedType: "bleeding", ExpectedSeverity: "high", Difficulty: "medium"},
		{ID: "c4", Content: "I feel completely fine", ExpectedType: "unknown", ExpectedSeverity: "low", Difficulty: "hard"},
	}

	summary := runner.Run(context.Background(), cases)

	assert.Equal(t, 4, summary.TotalCases)
	assert.Equal(t, 1.0, summary.TypeAccuracy)
	assert.GreaterOrEqual(t, summary.LevelAccuracy, 0.5)

	require.Contains(t, summary.ByType, entities.EmergencyCardiac)
	assert.Equal(t, 1, summary.ByType[entities.EmergencyCardiac].Count)
	assert.Equal(t, 1.0, summary.ByType[entities.EmergencyCardiac].TypeAccuracy)
}

func TestRunner_EmptyCaseSet(t *testing.T) {
	runner := NewRunner(services.NewClassificationService(nil, nil, "unknown"), services.NewSeverityService(nil))

	summary := runner.Run(context.Background(), nil)

	assert.Equal(t, 0, summary.TotalCases)
	assert.Equal(t, 0.0, summary.TypeAccuracy)
}
