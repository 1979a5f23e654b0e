package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeline-ai/backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	client.baseURL = server.URL
	return client
}

func responsesEnvelope(text string) map[string]interface{} {
	return map[string]interface{}{
		"output": []map[string]interface{}{
			{"content": []map[string]interface{}{{"type": "output_text", "text": text}}},
		},
	}
}

func TestClassify_ParsesStructuredAnswer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(responsesEnvelope(`{"type":"cardiac","confidence":0.92,"reasoning":"chest pain with radiation"}`))
	})

	result, err := client.Classify(context.Background(), "crushing chest pain")
	require.NoError(t, err)

	assert.Equal(t, "cardiac", result.Category)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
	assert.Equal(t, "chest pain with radiation", result.Reasoning)
}

func TestClassify_StripsMarkdownFences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(responsesEnvelope("```json\n{\"type\":\"burn\",\"confidence\":0.8,\"reasoning\":\"\"}\n```"))
	})

	result, err := client.Classify(context.Background(), "scalded hand")
	require.NoError(t, err)

	assert.Equal(t, "burn", result.Category)
}

func TestClassify_ErrorStatusIsReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Classify(context.Background(), "chest pain")
	assert.Error(t, err)
}

func TestClassify_MissingOutputTextIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"output": []interface{}{}})
	})

	_, err := client.Classify(context.Background(), "chest pain")
	assert.Error(t, err)
}

func TestScoreSeverity_ParsesStructuredAnswer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(responsesEnvelope(`{"severity":"HIGH","score":0.7,"reasoning":"deep laceration"}`))
	})

	result, err := client.ScoreSeverity(context.Background(), "bleeding", "deep cut on forearm")
	require.NoError(t, err)

	assert.Equal(t, "high", result.Level)
	assert.InDelta(t, 0.7, result.Score, 1e-9)
}

func TestScoreSeverity_NonJSONAnswerIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(responsesEnvelope("I think this is quite serious."))
	})

	_, err := client.ScoreSeverity(context.Background(), "bleeding", "deep cut")
	assert.Error(t, err)
}

func TestGenerateInstructions_SkipsBlankSteps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(responsesEnvelope(`{"instructions":[
			{"step":1,"title":"Apply pressure","description":"Press firmly","duration":60},
			{"step":2,"title":"","description":""},
			{"step":3,"title":"Elevate","description":"Raise the limb"}
		]}`))
	})

	drafts, err := client.GenerateInstructions(context.Background(), "bleeding", "high")
	require.NoError(t, err)

	require.Len(t, drafts, 2)
	assert.Equal(t, "Apply pressure", drafts[0].Title)
	require.NotNil(t, drafts[0].Duration)
	assert.Equal(t, 60, *drafts[0].Duration)
	assert.Equal(t, "Elevate", drafts[1].Title)
	assert.Nil(t, drafts[1].Duration)
}

func TestTranscribe_SendsMultipartAudio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "audio.wav", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "my husband collapsed"})
	})

	text, err := client.Transcribe(context.Background(), []byte{0x52, 0x49, 0x46, 0x46}, "wav")
	require.NoError(t, err)

	assert.Equal(t, "my husband collapsed", text)
}

func TestTranscribe_EmptyAudioRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Transcribe(context.Background(), nil, "wav")
	assert.Error(t, err)
}

func TestDescribe_ReturnsCaptionText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o", payload["model"])

		json.NewEncoder(w).Encode(responsesEnvelope("A deep cut on the left forearm with active bleeding."))
	})

	caption, err := client.Describe(context.Background(), []byte{0xFF, 0xD8}, "jpeg")
	require.NoError(t, err)

	assert.Contains(t, caption, "forearm")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)
}
