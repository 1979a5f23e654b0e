package evaluation

import (
	"context"
	"time"

	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/entities"
)

// Runner replays labeled cases through the classification and severity
// stages and aggregates accuracy metrics.
type Runner struct {
	classifier *services.ClassificationService
	severity   *services.SeverityService
}

func NewRunner(classifier *services.ClassificationService, severity *services.SeverityService) *Runner {
	return &Runner{classifier: classifier, severity: severity}
}

func (r *Runner) Run(ctx context.Context, cases []LabeledCase) *Summary {
	summary := &Summary{
		TotalCases: len(cases),
		ByType:     make(map[entities.EmergencyType]*TypeSummary),
	}

	levelCorrect := 0
	typeCorrect := 0

	for _, c := range cases {
		start := time.Now()
		detection := r.classifier.Classify(ctx, entities.InputText, c.Content)
		severity := r.severity.Score(ctx, detection.EmergencyType, c.Content, detection.Confidence)
		latency := time.Since(start)

		result := CaseResult{
			CaseID:        c.ID,
			Content:       c.Content,
			ExpectedType:  entities.EmergencyType(c.ExpectedType),
			DetectedType:  detection.EmergencyType,
			ExpectedLevel: entities.SeverityLevel(c.ExpectedSeverity),
			DetectedLevel: severity.Level,
			Latency:       latency,
		}
		result.TypeCorrect = result.DetectedType == result.ExpectedType
		result.LevelDistance = LevelDistance(result.ExpectedLevel, result.DetectedLevel)

		if result.TypeCorrect {
			typeCorrect++
		}
		if result.LevelDistance == 0 {
			levelCorrect++
		}
		summary.AvgLevelDistance += float64(result.LevelDistance)
		summary.AvgLatency += latency

		r.updateByType(summary, result)
	}

	if summary.TotalCases > 0 {
		summary.TypeAccuracy = Accuracy(typeCorrect, summary.TotalCases)
		summary.LevelAccuracy = Accuracy(levelCorrect, summary.TotalCases)
		summary.AvgLevelDistance /= float64(summary.TotalCases)
		summary.AvgLatency /= time.Duration(summary.TotalCases)
	}

	for _, ts := range summary.ByType {
		if ts.Count > 0 {
			n := float64(ts.Count)
			ts.TypeAccuracy /= n
			ts.LevelAccuracy /= n
		}
	}

	return summary
}

func (r *Runner) updateByType(s *Summary, res CaseResult) {
	if _, ok := s.ByType[res.ExpectedType]; !ok {
		s.ByType[res.ExpectedType] = &TypeSummary{}
	}
	ts := s.ByType[res.ExpectedType]
	ts.Count++
	if res.TypeCorrect {
		ts.TypeAccuracy++
	}
	if res.LevelDistance == 0 {
		ts.LevelAccuracy++
	}
}
