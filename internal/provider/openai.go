package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/transfer"
)

const openaiBaseURL = "https://api.openai.com/v1"

// OpenAIClient serves text (chat completions) and image generations.
type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Generate(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error) {
	switch req.Type {
	case models.ContentTypeText:
		return c.generateText(ctx, model, req)
	case models.ContentTypeImage:
		return c.generateImage(ctx, model, req)
	default:
		return nil, fmt.Errorf("openai client does not handle content type %q", req.Type)
	}
}

func (c *OpenAIClient) generateText(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error) {
	prompt := req.Prompt
	if req.Options.Tone != "" {
		prompt = fmt.Sprintf("%s\n\nTone: %s", prompt, req.Options.Tone)
	}

	payload := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	if req.Options.MaxTokens > 0 {
		payload["max_tokens"] = req.Options.MaxTokens
	}
	if req.Options.Temperature > 0 {
		payload["temperature"] = req.Options.Temperature
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := c.postJSON(ctx, "/chat/completions", payload, &result); err != nil {
		return nil, err
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &Result{
		Text:  result.Choices[0].Message.Content,
		Units: float64(result.Usage.TotalTokens) / 1000,
	}, nil
}

func (c *OpenAIClient) generateImage(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error) {
	size := req.Options.Size
	if size == "" {
		size = "1024x1024"
	}

	payload := map[string]interface{}{
		"model":           model,
		"prompt":          req.Prompt,
		"n":               1,
		"size":            size,
		"response_format": "b64_json",
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, "/images/generations", payload, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("openai returned no image data")
	}

	raw, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	return &Result{
		Media:    raw,
		MimeType: "image/png",
		Units:    1,
	}, nil
}

func (c *OpenAIClient) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openaiBaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai returned status %d: %s", resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
