package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"legalease-backend/internal/logger"
)

// ErrMissingAPIKey is returned when no HuggingFace credential is configured.
var ErrMissingAPIKey = errors.New("huggingface api key is not configured")

// HFClient calls the HuggingFace hosted inference API. Model loading on
// cold start can take minutes, hence the generous default timeout.
type HFClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type summarizationRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Options    map[string]interface{} `json:"options,omitempty"`
}

type summarizationResponse struct {
	SummaryText string `json:"summary_text"`
}

type translationRequest struct {
	Inputs  string                 `json:"inputs"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type translationResponse struct {
	TranslationText string `json:"translation_text"`
}

func NewHFClient(apiKey, baseURL string, timeoutSeconds int) *HFClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "HuggingFaceAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &HFClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		breaker: breaker,
	}
}

// HasCredentials reports whether a usable API key is configured.
func (hc *HFClient) HasCredentials() bool {
	return hc.apiKey != ""
}

// Summarize runs one chunk of text through a summarization model and
// returns the model's summary_text.
func (hc *HFClient) Summarize(ctx context.Context, model, text string, minLength, maxLength int) (string, error) {
	tracer := otel.Tracer("huggingface-client")
	ctx, span := tracer.Start(ctx, "huggingface.summarize")
	defer span.End()

	span.SetAttributes(
		attribute.String("hf.model", model),
		attribute.Int("hf.input_chars", len(text)),
	)

	if !hc.HasCredentials() {
		span.SetAttributes(attribute.Bool("hf.missing_credentials", true))
		return "", ErrMissingAPIKey
	}

	payload := summarizationRequest{
		Inputs: text,
		Parameters: map[string]interface{}{
			"min_length":  minLength,
			"max_length":  maxLength,
			"temperature": 0.3,
		},
		Options: map[string]interface{}{
			"wait_for_model": true,
		},
	}

	body, err := hc.post(ctx, model, payload)
	if err != nil {
		span.SetAttributes(attribute.Bool("hf.error", true))
		return "", err
	}

	var results []summarizationResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to decode summarization response: %w", err)
	}
	if len(results) == 0 || results[0].SummaryText == "" {
		return "", errors.New("summarization response contained no summary")
	}

	span.SetAttributes(attribute.Int("hf.output_chars", len(results[0].SummaryText)))
	return results[0].SummaryText, nil
}

// Translate runs text through an opus-mt translation model. The model
// name already encodes the source and target language pair.
func (hc *HFClient) Translate(ctx context.Context, model, text string) (string, error) {
	tracer := otel.Tracer("huggingface-client")
	ctx, span := tracer.Start(ctx, "huggingface.translate")
	defer span.End()

	span.SetAttributes(
		attribute.String("hf.model", model),
		attribute.Int("hf.input_chars", len(text)),
	)

	if !hc.HasCredentials() {
		span.SetAttributes(attribute.Bool("hf.missing_credentials", true))
		return "", ErrMissingAPIKey
	}

	payload := translationRequest{
		Inputs: text,
		Options: map[string]interface{}{
			"wait_for_model": true,
		},
	}

	body, err := hc.post(ctx, model, payload)
	if err != nil {
		span.SetAttributes(attribute.Bool("hf.error", true))
		return "", err
	}

	var results []translationResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(results) == 0 || results[0].TranslationText == "" {
		return "", errors.New("translation response contained no text")
	}

	span.SetAttributes(attribute.Int("hf.output_chars", len(results[0].TranslationText)))
	return results[0].TranslationText, nil
}

func (hc *HFClient) post(ctx context.Context, model string, payload interface{}) ([]byte, error) {
	result, err := hc.breaker.Execute(func() (interface{}, error) {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/%s", hc.baseURL, model)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+hc.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := hc.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
		}

		return body, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, errors.New("inference API circuit breaker open")
		}
		return nil, err
	}

	return result.([]byte), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
