package services

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	fallbackCounterOnce sync.Once
	fallbackCounter     metric.Int64Counter
)

func initFallbackCounter() {
	meter := otel.Meter("github.com/lifeline-ai/backend/triage")
	counter, err := meter.Int64Counter(
		"triage.fallback.count",
		metric.WithDescription("Number of times a triage stage fell back to the next provider"),
	)
	if err == nil {
		fallbackCounter = counter
	}
}

// recordFallbackMetric counts one provider failure that handed a triage
// stage over to the next link in its chain.
func recordFallbackMetric(ctx context.Context, stage, from string) {
	fallbackCounterOnce.Do(initFallbackCounter)
	if fallbackCounter == nil {
		return
	}
	fallbackCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("triage.stage", stage),
		attribute.String("triage.failed_provider", from),
	))
}
