package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lifeline-ai/backend/internal/domain/entities"
)

// LoadLabeledCases reads and parses a labeled case set from a JSON file.
func LoadLabeledCases(path string) ([]LabeledCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labeled cases file: %w", err)
	}

	var cases []LabeledCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse labeled cases: %w", err)
	}

	return cases, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateLabeledCases checks that all cases have required fields and valid values.
func ValidateLabeledCases(cases []LabeledCase) error {
	seen := make(map[string]struct{}, len(cases))

	for i, c := range cases {
		if c.ID == "" {
			return fmt.Errorf("case at index %d: missing id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("case at index %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.Content == "" {
			return fmt.Errorf("case %q: missing content", c.ID)
		}
		if !entities.EmergencyType(c.ExpectedType).IsValid() {
			return fmt.Errorf("case %q: invalid expected type %q", c.ID, c.ExpectedType)
		}
		if !entities.SeverityLevel(c.ExpectedSeverity).IsValid() {
			return fmt.Errorf("case %q: invalid expected severity %q", c.ID, c.ExpectedSeverity)
		}
		if !validDifficulties[c.Difficulty] {
			return fmt.Errorf("case %q: invalid difficulty %q (must be easy/medium/hard)", c.ID, c.Difficulty)
		}
	}

	return nil
}
