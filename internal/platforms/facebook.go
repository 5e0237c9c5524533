package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/contentforge/backend/internal/transfer"
)

type FacebookPoster struct {
	baseURL    string
	httpClient *http.Client
}

func NewFacebookPoster() *FacebookPoster {
	return &FacebookPoster{
		baseURL:    "https://graph.facebook.com/v21.0",
		httpClient: newHTTPClient(),
	}
}

// NewFacebookPosterWithBaseURL exists for tests.
func NewFacebookPosterWithBaseURL(baseURL string) *FacebookPoster {
	return &FacebookPoster{baseURL: baseURL, httpClient: newHTTPClient()}
}

func (p *FacebookPoster) Platform() string { return "facebook" }

// Post publishes to a page feed. The stored user token is first
// exchanged for the page-scoped access token.
func (p *FacebookPoster) Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	pageID := cfg.PageID
	if pageID == "" {
		pageID = conn.AccountID
	}

	pageToken, err := p.pageAccessToken(ctx, pageID, conn.AccessToken)
	if err != nil {
		return failure("facebook page token exchange failed: %v", err)
	}

	endpoint := fmt.Sprintf("%s/%s/feed", p.baseURL, pageID)
	payload := map[string]interface{}{
		"message":      content,
		"access_token": pageToken,
	}
	if contentURL != "" {
		endpoint = fmt.Sprintf("%s/%s/photos", p.baseURL, pageID)
		payload = map[string]interface{}{
			"url":          contentURL,
			"caption":      content,
			"access_token": pageToken,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure("error marshalling payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return failure("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return failure("facebook request failed: %v", err)
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return failure("facebook post failed: %v", err)
	}

	postID := result.PostID
	if postID == "" {
		postID = result.ID
	}
	if postID == "" {
		return failure("facebook returned no post id")
	}

	return transfer.PostResult{
		Success:         true,
		PlatformPostID:  postID,
		PlatformPostURL: "https://www.facebook.com/" + postID,
	}
}

func (p *FacebookPoster) pageAccessToken(ctx context.Context, pageID, userToken string) (string, error) {
	params := url.Values{}
	params.Add("fields", "access_token")
	params.Add("access_token", userToken)

	reqURL := fmt.Sprintf("%s/%s?%s", p.baseURL, pageID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("no page access token returned")
	}
	return result.AccessToken, nil
}
