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

var allowedAudioFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"m4a":  true,
	"flac": true,
}

// Audio duration cannot be measured without decoding the clip, so the
// duration limit is enforced as a byte budget at the worst-case rate of
// uncompressed 16-bit stereo PCM at 48 kHz.
const audioBytesPerSecond = 192_000

// VoiceHandler accepts recorded speech, transcribes it, and runs the
// transcript through the same triage pipeline as text input.
type VoiceHandler struct {
	transcriber providers.TranscriptionProvider
	triage      *services.TriageService
	maxBytes    int
}

// NewVoiceHandler creates a new voice handler. transcriber may be nil when
// no speech service is configured; requests are then rejected.
func NewVoiceHandler(transcriber providers.TranscriptionProvider, triage *services.TriageService, maxDurationSeconds int) *VoiceHandler {
	if maxDurationSeconds <= 0 {
		maxDurationSeconds = 60
	}
	return &VoiceHandler{
		transcriber: transcriber,
		triage:      triage,
		maxBytes:    maxDurationSeconds * audioBytesPerSecond,
	}
}

type voiceRequest struct {
	Audio    string             `json:"audio"`
	Format   string             `json:"format"`
	Location *entities.Location `json:"location"`
}

// Process handles POST /api/v1/voice/process
func (h *VoiceHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "invalid request body")
		return
	}

	if req.Format == "" {
		req.Format = "wav"
	}
	if !allowedAudioFormats[req.Format] {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "unsupported audio format")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil || len(audio) == 0 {
		respondWithError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "audio must be non-empty base64 data")
		return
	}
	if len(audio) > h.maxBytes {
		respondWithError(w, http.StatusRequestEntityTooLarge, string(apperrors.ErrorTypeValidation), "audio exceeds maximum duration")
		return
	}

	if h.transcriber == nil {
		respondWithError(w, http.StatusServiceUnavailable, string(apperrors.ErrorTypeExternal), "voice transcription is not configured")
		return
	}

	transcript, err := h.transcriber.Transcribe(r.Context(), audio, req.Format)
	if err != nil {
		// Without a transcript there is nothing to triage. Unlike the
		// classification chain this failure cannot degrade, so the
		// request is rejected.
		log.Warn().Err(err).Msg("voice transcription failed")
		respondWithError(w, http.StatusBadGateway, string(apperrors.ErrorTypeExternal), "voice transcription failed")
		return
	}

	input := &entities.EmergencyInput{
		Type:      entities.InputVoice,
		Content:   transcript,
		Timestamp: time.Now().UTC(),
		Location:  req.Location,
	}

	response, err := h.triage.Triage(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"transcript": transcript,
		"analysis":   response,
	})
}
