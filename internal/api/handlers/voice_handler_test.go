package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct {
	transcript string
	err        error
	gotFormat  string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, format string) (string, error) {
	f.gotFormat = format
	return f.transcript, f.err
}

type fakeCaptioner struct {
	description string
	err         error
}

func (f *fakeCaptioner) Describe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.description, f.err
}

func TestVoiceProcess_TranscriptIsTriaged(t *testing.T) {
	triage, _, _ := newTestServices()
	transcriber := &fakeTranscriber{transcript: "my father is having chest pain"}
	handler := NewVoiceHandler(transcriber, triage, 0)

	recorder := postJSON(t, handler.Process, map[string]interface{}{
		"audio":  base64.StdEncoding.EncodeToString([]byte("fake-audio")),
		"format": "mp3",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "mp3", transcriber.gotFormat)

	envelope := decodeEnvelope(t, recorder)
	require.True(t, envelope.Success)

	payload, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "my father is having chest pain", payload["transcript"])
	assert.NotNil(t, payload["analysis"])
}

func TestVoiceProcess_TranscriptionFailureRejectsRequest(t *testing.T) {
	triage, _, _ := newTestServices()
	handler := NewVoiceHandler(&fakeTranscriber{err: errors.New("service down")}, triage, 0)

	recorder := postJSON(t, handler.Process, map[string]interface{}{
		"audio": base64.StdEncoding.EncodeToString([]byte("fake-audio")),
	})

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.False(t, envelope.Success)
}

func TestVoiceProcess_UnsupportedFormatRejected(t *testing.T) {
	triage, _, _ := newTestServices()
	handler := NewVoiceHandler(&fakeTranscriber{}, triage, 0)

	recorder := postJSON(t, handler.Process, map[string]interface{}{
		"audio":  base64.StdEncoding.EncodeToString([]byte("fake-audio")),
		"format": "ogg",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVoiceProcess_InvalidBase64Rejected(t *testing.T) {
	triage, _, _ := newTestServices()
	handler := NewVoiceHandler(&fakeTranscriber{}, triage, 0)

	recorder := postJSON(t, handler.Process, map[string]interface{}{
		"audio": "!!not-base64!!",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVoiceProcess_OversizedAudioRejected(t *testing.T) {
	triage, _, _ := newTestServices()
	transcriber := &fakeTranscriber{transcript: "chest pain"}
	// 1-second budget; the clip exceeds the worst-case PCM byte rate.
	handler := NewVoiceHandler(transcriber, triage, 1)

	recorder := postJSON(t, handler.Process, map[string]interface{}{
		"audio": base64.StdEncoding.EncodeToString(make([]byte, 200_000)),
	})

	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	assert.Empty(t, transcriber.gotFormat, "transcriber must not be called for oversized audio")
}

func TestVoiceProcess_NoTranscriberConfigured(t *testing.T) {
	triage, _, _ := newTestServices()
	handler := NewVoiceHandler(nil, triage, 0)

	recorder := postJSON(t, handler.Process, map[string]interface{}{
		"audio": base64.StdEncoding.EncodeToString([]byte("fake-audio")),
	})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestImageAnalyze_DescriptionIsTriaged(t *testing.T) {
	triage, _, _ := newTestServices()
	captioner := &fakeCaptioner{description: "severe burn on the right hand"}
	handler := NewImageHandler(captioner, triage, 0)

	recorder := postJSON(t, handler.Analyze, map[string]interface{}{
		"image":  base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF}),
		"format": "jpeg",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	require.True(t, envelope.Success)

	payload, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "severe burn on the right hand", payload["description"])
}

func TestImageAnalyze_OversizedImageRejected(t *testing.T) {
	triage, _, _ := newTestServices()
	handler := NewImageHandler(&fakeCaptioner{description: "x"}, triage, 8)

	recorder := postJSON(t, handler.Analyze, map[string]interface{}{
		"image": base64.StdEncoding.EncodeToString(make([]byte, 64)),
	})

	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
}

func TestImageAnalyze_CaptionFailureRejectsRequest(t *testing.T) {
	triage, _, _ := newTestServices()
	handler := NewImageHandler(&fakeCaptioner{err: errors.New("vision down")}, triage, 0)

	recorder := postJSON(t, handler.Analyze, map[string]interface{}{
		"image": base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8}),
	})

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}
