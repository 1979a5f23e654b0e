package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHospitalSearch_ReturnsRankedFacilities(t *testing.T) {
	_, _, hospitals := newTestServices()
	handler := NewHospitalHandler(hospitals)

	recorder := postJSON(t, handler.Search, map[string]interface{}{
		"location": map[string]float64{"latitude": 6.5244, "longitude": 3.3792},
		"radius":   5,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload struct {
		Hospitals []struct {
			ID         string  `json:"id"`
			DistanceKm float64 `json:"distance_km"`
		} `json:"hospitals"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))

	require.NotEmpty(t, payload.Hospitals)
	assert.Equal(t, len(payload.Hospitals), payload.Count)
	for i := 1; i < len(payload.Hospitals); i++ {
		assert.GreaterOrEqual(t, payload.Hospitals[i].DistanceKm, payload.Hospitals[i-1].DistanceKm)
	}
	for _, hospital := range payload.Hospitals {
		assert.LessOrEqual(t, hospital.DistanceKm, 5.0)
	}
}

func TestHospitalSearch_InvalidCoordinatesRejected(t *testing.T) {
	_, _, hospitals := newTestServices()
	handler := NewHospitalHandler(hospitals)

	recorder := postJSON(t, handler.Search, map[string]interface{}{
		"location": map[string]float64{"latitude": 99, "longitude": 3.3792},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHospitalSearch_ZeroRadiusDefaults(t *testing.T) {
	_, _, hospitals := newTestServices()
	handler := NewHospitalHandler(hospitals)

	recorder := postJSON(t, handler.Search, map[string]interface{}{
		"location": map[string]float64{"latitude": 6.5244, "longitude": 3.3792},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
}
