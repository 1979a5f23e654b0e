package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeline-ai/backend/internal/adapters/providers/directory"
	"github.com/lifeline-ai/backend/internal/application/services"
)

// newTestServices builds the service graph with no external providers, so
// handlers run on the rules engine and the synthetic facility generator.
func newTestServices() (*services.TriageService, *services.FirstAidService, *services.HospitalService) {
	classification := services.NewClassificationService(nil, nil, "unknown")
	severity := services.NewSeverityService(nil)
	firstAid := services.NewFirstAidService(nil)
	hospitals := services.NewHospitalService(nil, directory.NewSyntheticProvider(), 10)
	triage := services.NewTriageService(classification, severity, firstAid, hospitals, 0.8, 10, 15)
	return triage, firstAid, hospitals
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var envelope apiResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func TestAnalyze_ReturnsTriageDecision(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	recorder := postJSON(t, handler.Analyze, map[string]interface{}{
		"input": map[string]interface{}{
			"type":      "text",
			"content":   "crushing chest pain, can't breathe",
			"timestamp": time.Now().UTC(),
		},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)
	assert.False(t, envelope.Timestamp.IsZero())

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var decision struct {
		Detection struct {
			EmergencyType string `json:"emergency_type"`
		} `json:"detection"`
		ShouldCallEmergency bool `json:"should_call_emergency"`
	}
	require.NoError(t, json.Unmarshal(data, &decision))
	assert.Equal(t, "cardiac", decision.Detection.EmergencyType)
	assert.True(t, decision.ShouldCallEmergency)
}

func TestAnalyze_DefaultsMissingTypeAndTimestamp(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	recorder := postJSON(t, handler.Analyze, map[string]interface{}{
		"input": map[string]interface{}{"content": "mild headache"},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAnalyze_EmptyContentRejected(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	recorder := postJSON(t, handler.Analyze, map[string]interface{}{
		"input": map[string]interface{}{"type": "text", "content": "  "},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestAnalyze_MalformedBodyRejected(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestFirstAid_ReturnsInstructionSequence(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	recorder := postJSON(t, handler.FirstAid, map[string]interface{}{
		"emergency_type": "bleeding",
		"severity":       "high",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload struct {
		Instructions []struct {
			Step  int    `json:"step"`
			Title string `json:"title"`
		} `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.NotEmpty(t, payload.Instructions)
	assert.Equal(t, 1, payload.Instructions[0].Step)
}

func TestFirstAid_UnknownTypeRejected(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	recorder := postJSON(t, handler.FirstAid, map[string]interface{}{
		"emergency_type": "werewolf", "severity": "high",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestFirstAid_UnknownSeverityRejected(t *testing.T) {
	triage, firstAid, _ := newTestServices()
	handler := NewEmergencyHandler(triage, firstAid)

	recorder := postJSON(t, handler.FirstAid, map[string]interface{}{
		"emergency_type": "burn", "severity": "catastrophic",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
