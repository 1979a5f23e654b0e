package providers

import "context"

// ModelClassifier classifies emergency text with a pre-trained artifact
// loaded once at process start. It is invoked only when Available reports
// true; a missing artifact is a permanently unavailable stage, not an error.
type ModelClassifier interface {
	// Available reports whether the artifact was loaded
	Available() bool

	// Classify predicts the emergency category for a description
	Classify(ctx context.Context, content string) (*ModelPrediction, error)
}

// ModelPrediction is a trained-model classification answer
type ModelPrediction struct {
	Category   string
	Confidence float64
}
