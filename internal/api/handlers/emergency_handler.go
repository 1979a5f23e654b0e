package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/entities"
	apperrors "github.com/lifeline-ai/backend/pkg/errors"
)

// EmergencyHandler serves the text triage and first-aid endpoints
type EmergencyHandler struct {
	triage   *services.TriageService
	firstAid *services.FirstAidService
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(triage *services.TriageService, firstAid *services.FirstAidService) *EmergencyHandler {
	return &EmergencyHandler{
		triage:   triage,
		firstAid: firstAid,
	}
}

type analyzeRequest struct {
	Input     entities.EmergencyInput `json:"input"`
	UserID    string                  `json:"user_id"`
	SessionID string                  `json:"session_id"`
}

// Analyze handles POST /api/v1/emergency/analyze
func (h *EmergencyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body")
		return
	}

	if req.Input.Timestamp.IsZero() {
		req.Input.Timestamp = time.Now().UTC()
	}
	if req.Input.Type == "" {
		req.Input.Type = entities.InputText
	}

	response, err := h.triage.Triage(r.Context(), &req.Input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

type firstAidRequest struct {
	EmergencyType string             `json:"emergency_type"`
	Severity      string             `json:"severity"`
	Location      *entities.Location `json:"location"`
}

// FirstAid handles POST /api/v1/emergency/first-aid
func (h *EmergencyHandler) FirstAid(w http.ResponseWriter, r *http.Request) {
	var req firstAidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body")
		return
	}

	emergencyType := entities.EmergencyType(req.EmergencyType)
	if !emergencyType.IsValid() {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "unknown emergency type")
		return
	}

	severity := entities.SeverityLevel(req.Severity)
	if !severity.IsValid() {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "unknown severity level")
		return
	}

	instructions := h.firstAid.InstructionsFor(r.Context(), emergencyType, severity)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"emergency_type": emergencyType,
		"severity":       severity,
		"instructions":   instructions,
	})
}
