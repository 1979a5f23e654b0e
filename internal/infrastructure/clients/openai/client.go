package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lifeline-ai/backend/internal/domain/providers"
	"github.com/lifeline-ai/backend/pkg/config"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	transcriptionModel = "whisper-1"
	visionModel        = "gpt-4o"
)

// Client talks to the OpenAI API and implements the intelligence,
// transcription, and caption providers. Every call is a single bounded
// attempt; the services fall back on any error.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Ensure Client satisfies the provider interfaces
var (
	_ providers.IntelligenceProvider  = (*Client)(nil)
	_ providers.TranscriptionProvider = (*Client)(nil)
	_ providers.CaptionProvider       = (*Client)(nil)
)

// NewClient creates a new OpenAI client
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

type classificationPayload struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type severityPayload struct {
	Severity  string  `json:"severity"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

type instructionPayload struct {
	Instructions []struct {
		Step        int    `json:"step"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Duration    *int   `json:"duration"`
	} `json:"instructions"`
}

// Classify determines the emergency type for a description
func (c *Client) Classify(ctx context.Context, content string) (*providers.ClassifiedEmergency, error) {
	text, err := c.complete(ctx, classificationSystemPrompt, buildClassificationPrompt(content), c.model, 0.3, 300)
	if err != nil {
		return nil, err
	}

	var parsed classificationPayload
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	if parsed.Type == "" {
		return nil, errors.New("classification response missing type")
	}

	return &providers.ClassifiedEmergency{
		Category:   strings.ToLower(parsed.Type),
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
	}, nil
}

// ScoreSeverity assesses how severe a classified emergency is
func (c *Client) ScoreSeverity(ctx context.Context, emergencyType, content string) (*providers.SeverityAssessment, error) {
	text, err := c.complete(ctx, severitySystemPrompt, buildSeverityPrompt(emergencyType, content), c.model, 0.2, 300)
	if err != nil {
		return nil, err
	}

	var parsed severityPayload
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse severity response: %w", err)
	}
	if parsed.Severity == "" {
		return nil, errors.New("severity response missing level")
	}

	return &providers.SeverityAssessment{
		Level:     strings.ToLower(parsed.Severity),
		Score:     parsed.Score,
		Reasoning: parsed.Reasoning,
	}, nil
}

// GenerateInstructions produces first-aid steps for a type and severity
func (c *Client) GenerateInstructions(ctx context.Context, emergencyType, severity string) ([]providers.InstructionDraft, error) {
	text, err := c.complete(ctx, instructionSystemPrompt, buildInstructionPrompt(emergencyType, severity), c.model, 0.4, 900)
	if err != nil {
		return nil, err
	}

	var parsed instructionPayload
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse instruction response: %w", err)
	}

	drafts := make([]providers.InstructionDraft, 0, len(parsed.Instructions))
	for _, instruction := range parsed.Instructions {
		if instruction.Title == "" && instruction.Description == "" {
			continue
		}
		drafts = append(drafts, providers.InstructionDraft{
			Step:        instruction.Step,
			Title:       instruction.Title,
			Description: instruction.Description,
			Duration:    instruction.Duration,
		})
	}

	return drafts, nil
}

// Transcribe converts recorded speech to text via the transcription API
func (c *Client) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio payload is empty")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio."+format)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", transcriptionModel); err != nil {
		return "", err
	}
	if err := writer.WriteField("language", "en"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordOpenAIMetric(ctx, transcriptionModel, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordOpenAIMetric(ctx, transcriptionModel, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("transcription request failed with status %d", resp.StatusCode)
	}

	var transcript struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		recordOpenAIMetric(ctx, transcriptionModel, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	recordOpenAIMetric(ctx, transcriptionModel, resp.StatusCode, time.Since(start), nil)
	return transcript.Text, nil
}

// Describe captions an image of an emergency scene via the vision model
func (c *Client) Describe(ctx context.Context, image []byte, format string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image payload is empty")
	}

	dataURL := fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(image))

	payload := map[string]interface{}{
		"model": visionModel,
		"input": []map[string]interface{}{
			{"role": "system", "content": imageSystemPrompt},
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "input_text", "text": imageUserPrompt},
					{"type": "input_image", "image_url": dataURL},
				},
			},
		},
		"max_output_tokens": 500,
	}

	text, err := c.request(ctx, payload, visionModel)
	if err != nil {
		return "", err
	}
	return text, nil
}

// complete sends a system+user prompt pair and returns the cleaned output
// text of the first response.
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt, model string, temperature float64, maxTokens int) (string, error) {
	payload := map[string]interface{}{
		"model": model,
		"input": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature":       temperature,
		"max_output_tokens": maxTokens,
	}

	return c.request(ctx, payload, model)
}

func (c *Client) request(ctx context.Context, payload map[string]interface{}, model string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordOpenAIMetric(ctx, model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordOpenAIMetric(ctx, model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordOpenAIMetric(ctx, model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	var text string
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				text = content.Text
				break
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		recordOpenAIMetric(ctx, model, resp.StatusCode, time.Since(start), errors.New("missing output text"))
		return "", errors.New("openai response missing output text")
	}

	recordOpenAIMetric(ctx, model, resp.StatusCode, time.Since(start), nil)
	return stripCodeFences(text), nil
}

// stripCodeFences removes Markdown code blocks some models wrap JSON in
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

type openAIMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var openaiMetricsInit = false
var openaiMetrics openAIMetrics

func ensureOpenAIMetrics() {
	if openaiMetricsInit {
		return
	}
	meter := otel.Meter("github.com/lifeline-ai/backend/openai")

	requestCount, err := meter.Int64Counter(
		"ai.openai.request.count",
		metric.WithDescription("Number of OpenAI requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.openai.request.duration",
		metric.WithDescription("OpenAI request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.openai.request.errors",
		metric.WithDescription("Number of OpenAI request errors"),
	)
	if err != nil {
		return
	}

	openaiMetrics = openAIMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
	}
	openaiMetricsInit = true
}

func recordOpenAIMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureOpenAIMetrics()
	if !openaiMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	openaiMetrics.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	openaiMetrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		openaiMetrics.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
