package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifeline-ai/backend/internal/application/services"
	"github.com/lifeline-ai/backend/internal/domain/entities"
	"github.com/lifeline-ai/backend/internal/domain/providers"
	apperrors "github.com/lifeline-ai/backend/pkg/errors"
)

var allowedImageFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// ImageHandler accepts a photo of an emergency scene, captions it, and
// triages the generated description.
type ImageHandler struct {
	captioner    providers.CaptionProvider
	triage       *services.TriageService
	maxSizeBytes int
}

// NewImageHandler creates a new image handler. captioner may be nil when no
// vision service is configured; requests are then rejected.
func NewImageHandler(captioner providers.CaptionProvider, triage *services.TriageService, maxSizeBytes int) *ImageHandler {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 5 * 1024 * 1024
	}
	return &ImageHandler{
		captioner:    captioner,
		triage:       triage,
		maxSizeBytes: maxSizeBytes,
	}
}

type imageRequest struct {
	Image    string             `json:"image"`
	Format   string             `json:"format"`
	Location *entities.Location `json:"location"`
}

// Analyze handles POST /api/v1/image/analyze
func (h *ImageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body")
		return
	}

	if req.Format == "" {
		req.Format = "jpeg"
	}
	if !allowedImageFormats[req.Format] {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "unsupported image format")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil || len(image) == 0 {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "image must be non-empty base64 data")
		return
	}
	if len(image) > h.maxSizeBytes {
		respondWithError(w, http.StatusRequestEntityTooLarge, string(apperrors.ErrorTypeValidation), "image exceeds maximum size")
		return
	}

	if h.captioner == nil {
		respondWithError(w, http.StatusServiceUnavailable, string(apperrors.ErrorTypeExternal), "image analysis is not configured")
		return
	}

	description, err := h.captioner.Describe(r.Context(), image, req.Format)
	if err != nil {
		log.Warn().Err(err).Msg("image captioning failed")
		respondWithError(w, http.StatusBadGateway, string(apperrors.ErrorTypeExternal), "image analysis failed")
		return
	}

	input := &entities.EmergencyInput{
		Type:      entities.InputImage,
		Content:   description,
		Timestamp: time.Now().UTC(),
		Location:  req.Location,
	}

	response, err := h.triage.Triage(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"description": description,
		"analysis":    response,
	})
}
