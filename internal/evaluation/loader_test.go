package evaluation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCases(t *testing.T, cases []LabeledCase) string {
	t.Helper()
	data, err := json.Marshal(cases)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cases.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func validCase(id string) LabeledCase {
	return LabeledCase{
		ID:               id,
		Content:          "crushing chest pain",
		ExpectedType:     "cardiac",
		ExpectedSeverity: "critical",
		Difficulty:       "easy",
	}
}

func TestLoadLabeledCases_RoundTrip(t *testing.T) {
	path := writeCases(t, []LabeledCase{validCase("c1"), validCase("c2")})

	cases, err := LoadLabeledCases(path)
	require.NoError(t, err)

	require.Len(t, cases, 2)
	assert.Equal(t, "c1", cases[0].ID)
}

func TestLoadLabeledCases_MissingFile(t *testing.T) {
	_, err := LoadLabeledCases(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidateLabeledCases_AcceptsValidSet(t *testing.T) {
	assert.NoError(t, ValidateLabeledCases([]LabeledCase{validCase("c1"), validCase("c2")}))
}

func TestValidateLabeledCases_RejectsDuplicateIDs(t *testing.T) {
	err := ValidateLabeledCases([]LabeledCase{validCase("c1"), validCase("c1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestValidateLabeledCases_RejectsMissingFields(t *testing.T) {
	missingID := validCase("")
	assert.Error(t, ValidateLabeledCases([]LabeledCase{missingID}))

	missingContent := validCase("c1")
	missingContent.Content = ""
	assert.Error(t, ValidateLabeledCases([]LabeledCase{missingContent}))
}

func TestValidateLabeledCases_RejectsUnknownLabels(t *testing.T) {
	badType := validCase("c1")
	badType.ExpectedType = "werewolf"
	assert.Error(t, ValidateLabeledCases([]LabeledCase{badType}))

	badSeverity := validCase("c2")
	badSeverity.ExpectedSeverity = "catastrophic"
	assert.Error(t, ValidateLabeledCases([]LabeledCase{badSeverity}))

	badDifficulty := validCase("c3")
	badDifficulty.Difficulty = "impossible"
	assert.Error(t, ValidateLabeledCases([]LabeledCase{badDifficulty}))
}
