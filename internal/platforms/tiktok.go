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

type TiktokPoster struct {
	baseURL    string
	httpClient *http.Client
	poll       provider.RetryPolicy
}

func NewTiktokPoster() *TiktokPoster {
	return &TiktokPoster{
		baseURL:    "https://open.tiktokapis.com",
		httpClient: newHTTPClient(),
		poll:       statusPoll,
	}
}

// NewTiktokPosterWithBaseURL exists for tests.
func NewTiktokPosterWithBaseURL(baseURL string, poll provider.RetryPolicy) *TiktokPoster {
	return &TiktokPoster{baseURL: baseURL, httpClient: newHTTPClient(), poll: poll}
}

func (p *TiktokPoster) Platform() string { return "tiktok" }

// Post initializes a PULL_FROM_URL video publish and polls the publish
// status until TikTok finishes processing.
func (p *TiktokPoster) Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	if contentURL == "" {
		return failure("tiktok requires a video; no content url given")
	}

	title := cfg.Title
	if title == "" {
		title = content
	}

	privacy := cfg.PrivacyLevel
	if privacy == "" {
		privacy = "SELF_ONLY"
	}

	initPayload := map[string]interface{}{
		"post_info": map[string]interface{}{
			"title":           title,
			"privacy_level":   privacy,
			"disable_comment": cfg.DisableComment,
		},
		"source_info": map[string]interface{}{
			"source":    "PULL_FROM_URL",
			"video_url": contentURL,
		},
	}

	var initResult transfer.TiktokPublishResponse
	if err := p.postJSON(ctx, conn, "/v2/post/publish/video/init/", initPayload, &initResult); err != nil {
		return failure("tiktok publish init failed: %v", err)
	}
	if initResult.Error.Code != "" && initResult.Error.Code != "ok" {
		return failure("tiktok publish init failed: %s", initResult.Error.Message)
	}
	publishID := initResult.Data.PublishID
	if publishID == "" {
		return failure("tiktok returned no publish id")
	}

	var postID string
	err := p.poll.Poll(ctx, func() (bool, error) {
		statusPayload := map[string]string{"publish_id": publishID}

		var statusResult transfer.TiktokStatusResponse
		if err := p.postJSON(ctx, conn, "/v2/post/publish/status/fetch/", statusPayload, &statusResult); err != nil {
			return false, err
		}

		switch statusResult.Data.Status {
		case "PUBLISH_COMPLETE":
			if len(statusResult.Data.PublicPostIDs) > 0 {
				postID = statusResult.Data.PublicPostIDs[0]
			}
			return true, nil
		case "FAILED":
			return false, fmt.Errorf("tiktok publish failed: %s", statusResult.Data.FailReason)
		default:
			return false, nil
		}
	})
	if err != nil {
		return failure("tiktok processing did not finish: %v", err)
	}

	result := transfer.PostResult{
		Success:        true,
		PlatformPostID: postID,
	}
	if postID != "" {
		result.PlatformPostURL = "https://www.tiktok.com/video/" + postID
	}
	return result
}

func (p *TiktokPoster) postJSON(ctx context.Context, conn Connection, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	return decodeJSON(resp, out)
}
