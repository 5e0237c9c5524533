package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/contentforge/backend/internal/provider"
	"github.com/contentforge/backend/internal/transfer"
)

type InstagramPoster struct {
	baseURL    string
	httpClient *http.Client
	poll       provider.RetryPolicy
}

func NewInstagramPoster() *InstagramPoster {
	return &InstagramPoster{
		baseURL:    "https://graph.instagram.com/v21.0",
		httpClient: newHTTPClient(),
		poll:       statusPoll,
	}
}

// NewInstagramPosterWithBaseURL exists for tests.
func NewInstagramPosterWithBaseURL(baseURL string, poll provider.RetryPolicy) *InstagramPoster {
	return &InstagramPoster{baseURL: baseURL, httpClient: newHTTPClient(), poll: poll}
}

func (p *InstagramPoster) Platform() string { return "instagram" }

// Post runs the container -> processing poll -> publish flow. Media
// containers are processed asynchronously on Instagram's side; the
// poll waits until the container reports FINISHED before publishing.
func (p *InstagramPoster) Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	if contentURL == "" {
		return failure("instagram requires media; no content url given")
	}

	containerID, err := p.createContainer(ctx, conn, content, contentURL)
	if err != nil {
		return failure("instagram container creation failed: %v", err)
	}

	err = p.poll.Poll(ctx, func() (bool, error) {
		status, err := p.containerStatus(ctx, conn, containerID)
		if err != nil {
			return false, err
		}
		switch status {
		case "FINISHED":
			return true, nil
		case "ERROR", "EXPIRED":
			return false, fmt.Errorf("container entered status %s", status)
		default:
			return false, nil
		}
	})
	if err != nil {
		return failure("instagram processing did not finish: %v", err)
	}

	mediaID, err := p.publish(ctx, conn, containerID)
	if err != nil {
		return failure("instagram publish failed: %v", err)
	}

	return transfer.PostResult{
		Success:         true,
		PlatformPostID:  mediaID,
		PlatformPostURL: "https://www.instagram.com/p/" + mediaID,
	}
}

func (p *InstagramPoster) createContainer(ctx context.Context, conn Connection, caption, contentURL string) (string, error) {
	payload := map[string]interface{}{
		"image_url":    contentURL,
		"caption":      caption,
		"access_token": conn.AccessToken,
	}

	var result struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/%s/media", p.baseURL, conn.AccountID)
	if err := p.postJSON(ctx, url, payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("no container id returned")
	}
	return result.ID, nil
}

func (p *InstagramPoster) containerStatus(ctx context.Context, conn Connection, containerID string) (string, error) {
	url := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s", p.baseURL, containerID, conn.AccessToken)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}

	var result struct {
		StatusCode string `json:"status_code"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return "", err
	}
	return result.StatusCode, nil
}

func (p *InstagramPoster) publish(ctx context.Context, conn Connection, containerID string) (string, error) {
	payload := map[string]interface{}{
		"creation_id":  containerID,
		"access_token": conn.AccessToken,
	}

	var result struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/%s/media_publish", p.baseURL, conn.AccountID)
	if err := p.postJSON(ctx, url, payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("no media id returned")
	}
	return result.ID, nil
}

func (p *InstagramPoster) postJSON(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	return decodeJSON(resp, out)
}
