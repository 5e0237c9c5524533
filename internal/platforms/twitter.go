package platforms

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/contentforge/backend/internal/transfer"
)

type TwitterPoster struct {
	apiBaseURL    string
	uploadBaseURL string
	httpClient    *http.Client
}

func NewTwitterPoster() *TwitterPoster {
	return &TwitterPoster{
		apiBaseURL:    "https://api.twitter.com",
		uploadBaseURL: "https://upload.twitter.com",
		httpClient:    newHTTPClient(),
	}
}

// NewTwitterPosterWithBaseURL exists for tests.
func NewTwitterPosterWithBaseURL(baseURL string) *TwitterPoster {
	return &TwitterPoster{apiBaseURL: baseURL, uploadBaseURL: baseURL, httpClient: newHTTPClient()}
}

func (p *TwitterPoster) Platform() string { return "twitter" }

func (p *TwitterPoster) Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	payload := map[string]interface{}{
		"text": content,
	}

	if contentURL != "" {
		mediaID, err := p.uploadMedia(ctx, conn, contentURL)
		if err != nil {
			return failure("twitter media upload failed: %v", err)
		}
		payload["media"] = map[string]interface{}{
			"media_ids": []string{mediaID},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure("error marshalling payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiBaseURL+"/2/tweets", bytes.NewBuffer(body))
	if err != nil {
		return failure("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return failure("twitter request failed: %v", err)
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return failure("twitter post failed: %v", err)
	}
	if result.Data.ID == "" {
		return failure("twitter returned no tweet id")
	}

	return transfer.PostResult{
		Success:         true,
		PlatformPostID:  result.Data.ID,
		PlatformPostURL: "https://twitter.com/i/web/status/" + result.Data.ID,
	}
}

func (p *TwitterPoster) uploadMedia(ctx context.Context, conn Connection, contentURL string) (string, error) {
	media, err := p.download(ctx, contentURL)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("media_data", base64.StdEncoding.EncodeToString(media))

	req, err := http.NewRequestWithContext(ctx, "POST", p.uploadBaseURL+"/1.1/media/upload.json", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}

	var result struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return "", err
	}
	if result.MediaIDString == "" {
		return "", fmt.Errorf("no media id returned")
	}
	return result.MediaIDString, nil
}

func (p *TwitterPoster) download(ctx context.Context, contentURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", contentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
