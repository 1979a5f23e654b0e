package evaluation

import "github.com/lifeline-ai/backend/internal/domain/entities"

var levelOrder = map[entities.SeverityLevel]int{
	entities.SeverityLow:      0,
	entities.SeverityModerate: 1,
	entities.SeverityHigh:     2,
	entities.SeverityCritical: 3,
}

// LevelDistance is the number of severity bands between expected and
// detected. 0 means an exact match; 3 means low was confused with critical.
func LevelDistance(expected, detected entities.SeverityLevel) int {
	distance := levelOrder[expected] - levelOrder[detected]
	if distance < 0 {
		distance = -distance
	}
	return distance
}

// Accuracy is the fraction of correct outcomes. Returns 0.0 for an empty set.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(correct) / float64(total)
}
