package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/entities"
	apperrors "github.com/lifeline-ai/backend/pkg/errors"
)

// HospitalHandler serves facility search requests
type HospitalHandler struct {
	hospitals *services.HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitals *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{hospitals: hospitals}
}

type hospitalSearchRequest struct {
	Location entities.Location `json:"location"`
	RadiusKm float64           `json:"radius"`
}

// Search handles POST /api/v1/hospitals/search
func (h *HospitalHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req hospitalSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body")
		return
	}

	hospitals, err := h.hospitals.FindNearby(r.Context(), req.Location, req.RadiusKm)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}
