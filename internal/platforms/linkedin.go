package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/contentforge/backend/internal/transfer"
)

type LinkedinPoster struct {
	baseURL    string
	httpClient *http.Client
}

func NewLinkedinPoster() *LinkedinPoster {
	return &LinkedinPoster{
		baseURL:    "https://api.linkedin.com",
		httpClient: newHTTPClient(),
	}
}

// NewLinkedinPosterWithBaseURL exists for tests.
func NewLinkedinPosterWithBaseURL(baseURL string) *LinkedinPoster {
	return &LinkedinPoster{baseURL: baseURL, httpClient: newHTTPClient()}
}

func (p *LinkedinPoster) Platform() string { return "linkedin" }

// Post publishes a ugcPost. Media goes through the register-upload ->
// PUT asset -> reference flow first.
func (p *LinkedinPoster) Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	author := "urn:li:person:" + conn.AccountID

	shareContent := map[string]interface{}{
		"shareCommentary":    map[string]string{"text": content},
		"shareMediaCategory": "NONE",
	}

	if contentURL != "" {
		assetURN, err := p.uploadAsset(ctx, conn, author, contentURL)
		if err != nil {
			return failure("linkedin asset upload failed: %v", err)
		}
		shareContent["shareMediaCategory"] = "IMAGE"
		shareContent["media"] = []map[string]interface{}{
			{"status": "READY", "media": assetURN},
		}
	}

	payload := map[string]interface{}{
		"author":         author,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": shareContent,
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure("error marshalling payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v2/ugcPosts", bytes.NewBuffer(body))
	if err != nil {
		return failure("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return failure("linkedin request failed: %v", err)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return failure("linkedin post failed: %v", err)
	}
	if result.ID == "" {
		return failure("linkedin returned no post id")
	}

	return transfer.PostResult{
		Success:         true,
		PlatformPostID:  result.ID,
		PlatformPostURL: "https://www.linkedin.com/feed/update/" + result.ID,
	}
}

func (p *LinkedinPoster) uploadAsset(ctx context.Context, conn Connection, author, contentURL string) (string, error) {
	registerPayload := map[string]interface{}{
		"registerUploadRequest": map[string]interface{}{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   author,
			"serviceRelationships": []map[string]string{
				{"relationshipType": "OWNER", "identifier": "urn:li:userGeneratedContent"},
			},
		},
	}
	body, err := json.Marshal(registerPayload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v2/assets?action=registerUpload", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}

	var result struct {
		Value struct {
			Asset           string `json:"asset"`
			UploadMechanism map[string]struct {
				UploadURL string `json:"uploadUrl"`
			} `json:"uploadMechanism"`
		} `json:"value"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return "", err
	}

	var uploadURL string
	for _, mech := range result.Value.UploadMechanism {
		if mech.UploadURL != "" {
			uploadURL = mech.UploadURL
			break
		}
	}
	if uploadURL == "" || result.Value.Asset == "" {
		return "", fmt.Errorf("register upload returned no upload url")
	}

	media, err := p.download(ctx, contentURL)
	if err != nil {
		return "", err
	}

	putReq, err := http.NewRequestWithContext(ctx, "PUT", uploadURL, bytes.NewReader(media))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	putReq.Header.Set("Authorization", "Bearer "+conn.AccessToken)

	putResp, err := p.httpClient.Do(putReq)
	if err != nil {
		return "", fmt.Errorf("asset upload error: %w", err)
	}
	defer putResp.Body.Close()

	if putResp.StatusCode < 200 || putResp.StatusCode > 299 {
		return "", fmt.Errorf("asset upload returned status %d", putResp.StatusCode)
	}

	return result.Value.Asset, nil
}

func (p *LinkedinPoster) download(ctx context.Context, contentURL string) ([]byte, error) {
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
