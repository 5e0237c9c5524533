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

const replicateBaseURL = "https://api.replicate.com/v1"

// ReplicateClient serves video generations. Predictions are
// asynchronous on the provider side, so a bounded poll loop waits for
// the terminal status.
type ReplicateClient struct {
	apiKey     string
	httpClient *http.Client
	poll       RetryPolicy
}

func NewReplicateClient(apiKey string, poll RetryPolicy) *ReplicateClient {
	return &ReplicateClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		poll:       poll,
	}
}

func (c *ReplicateClient) Name() string { return "replicate" }

type replicatePrediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output any    `json:"output"`
	Error  string `json:"error"`
}

func (c *ReplicateClient) Generate(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error) {
	if req.Type != models.ContentTypeVideo {
		return nil, fmt.Errorf("replicate client does not handle content type %q", req.Type)
	}

	duration := req.Options.DurationSeconds
	if duration <= 0 {
		duration = 5
	}

	payload := map[string]interface{}{
		"input": map[string]interface{}{
			"prompt":           req.Prompt,
			"duration_seconds": duration,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s/predictions", replicateBaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("replicate returned status %d: %s", resp.StatusCode, respBody)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}

	err = c.poll.Poll(ctx, func() (bool, error) {
		p, err := c.getPrediction(ctx, prediction.ID)
		if err != nil {
			return false, err
		}
		prediction = *p

		switch prediction.Status {
		case "succeeded":
			return true, nil
		case "failed", "canceled":
			return false, fmt.Errorf("prediction %s: %s", prediction.Status, prediction.Error)
		default:
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}

	outputURL := firstOutputURL(prediction.Output)
	if outputURL == "" {
		return nil, fmt.Errorf("prediction succeeded but returned no output")
	}

	video, err := c.download(ctx, outputURL)
	if err != nil {
		return nil, err
	}

	return &Result{
		Media:    video,
		MimeType: "video/mp4",
		Units:    float64(duration) / 60,
	}, nil
}

func (c *ReplicateClient) getPrediction(ctx context.Context, id string) (*replicatePrediction, error) {
	url := fmt.Sprintf("%s/predictions/%s", replicateBaseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("replicate returned status %d: %s", resp.StatusCode, respBody)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return &prediction, nil
}

func (c *ReplicateClient) download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func firstOutputURL(output any) string {
	switch v := output.(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				return s
			}
		}
	}
	return ""
}
