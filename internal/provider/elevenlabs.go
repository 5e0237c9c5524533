package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/transfer"
)

const elevenlabsBaseURL = "https://api.elevenlabs.io/v1"

const defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// ElevenLabsClient serves audio generations (text to speech).
type ElevenLabsClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *ElevenLabsClient) Name() string { return "elevenlabs" }

func (c *ElevenLabsClient) Generate(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error) {
	if req.Type != models.ContentTypeAudio {
		return nil, fmt.Errorf("elevenlabs client does not handle content type %q", req.Type)
	}

	voice := req.Options.Voice
	if voice == "" {
		voice = defaultVoiceID
	}

	payload := map[string]interface{}{
		"text":     req.Prompt,
		"model_id": model,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", elevenlabsBaseURL, voice)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, respBody)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error reading audio body: %w", err)
	}

	// TTS is billed per thousand input characters.
	return &Result{
		Media:    audio,
		MimeType: "audio/mpeg",
		Units:    float64(len(req.Prompt)) / 1000,
	}, nil
}
