package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/domain/providers"
)

var tokenPattern = regexp.MustCompile(`[a-z']+`)

// artifact is the on-disk format of a trained classifier: per-class log
// priors and per-class token log likelihoods exported from an offline
// training run.
type artifact struct {
	Version       int                           `json:"version"`
	Classes       []string                      `json:"classes"`
	Priors        map[string]float64            `json:"priors"`
	TokenWeights  map[string]map[string]float64 `json:"token_weights"`
	UnknownWeight float64                       `json:"unknown_weight"`
}

// ArtifactClassifier scores text against a trained bag-of-words model
// loaded from a JSON artifact. It is the first stage of the classification
// chain; when no artifact is configured the chain skips straight to the
// intelligence service.
type ArtifactClassifier struct {
	artifact *artifact
}

// Ensure ArtifactClassifier implements ModelClassifier
var _ providers.ModelClassifier = (*ArtifactClassifier)(nil)

// NewArtifactClassifier loads the model artifact at path. An empty path
// yields an unavailable classifier rather than an error, so deployments
// without a trained model run on the remaining stages.
func NewArtifactClassifier(path string) *ArtifactClassifier {
	if strings.TrimSpace(path) == "" {
		return &ArtifactClassifier{}
	}

	loaded, err := loadArtifact(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Trained model artifact unavailable, classification will rely on downstream stages")
		return &ArtifactClassifier{}
	}

	log.Info().Str("path", path).Int("classes", len(loaded.Classes)).Msg("Loaded trained classifier artifact")
	return &ArtifactClassifier{artifact: loaded}
}

func loadArtifact(path string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var loaded artifact
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if len(loaded.Classes) == 0 {
		return nil, fmt.Errorf("model artifact lists no classes")
	}
	for _, class := range loaded.Classes {
		if _, ok := loaded.Priors[class]; !ok {
			return nil, fmt.Errorf("model artifact missing prior for class %q", class)
		}
		if _, ok := loaded.TokenWeights[class]; !ok {
			return nil, fmt.Errorf("model artifact missing token weights for class %q", class)
		}
	}

	return &loaded, nil
}

// Available reports whether a usable artifact was loaded
func (c *ArtifactClassifier) Available() bool {
	return c.artifact != nil
}

// Classify scores the text against every class and returns the best one
// with a softmax-normalized confidence.
func (c *ArtifactClassifier) Classify(_ context.Context, content string) (*providers.ModelPrediction, error) {
	if c.artifact == nil {
		return nil, fmt.Errorf("no model artifact loaded")
	}

	tokens := tokenPattern.FindAllString(strings.ToLower(content), -1)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no scoreable tokens in input")
	}

	scores := make([]float64, len(c.artifact.Classes))
	for i, class := range c.artifact.Classes {
		score := c.artifact.Priors[class]
		weights := c.artifact.TokenWeights[class]
		for _, token := range tokens {
			if w, ok := weights[token]; ok {
				score += w
			} else {
				score += c.artifact.UnknownWeight
			}
		}
		scores[i] = score
	}

	bestIdx := 0
	for i, score := range scores {
		if score > scores[bestIdx] {
			bestIdx = i
		}
	}

	return &providers.ModelPrediction{
		Category:   c.artifact.Classes[bestIdx],
		Confidence: softmaxConfidence(scores, bestIdx),
	}, nil
}

// softmaxConfidence converts log scores into the winning class probability,
// shifting by the max score for numeric stability.
func softmaxConfidence(scores []float64, winner int) float64 {
	maxScore := scores[winner]
	var total float64
	for _, score := range scores {
		total += math.Exp(score - maxScore)
	}
	return 1.0 / total
}
