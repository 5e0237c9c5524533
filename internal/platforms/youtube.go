package platforms

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/contentforge/backend/internal/transfer"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type YoutubePoster struct {
	httpClient *http.Client
}

func NewYoutubePoster() *YoutubePoster {
	return &YoutubePoster{httpClient: newHTTPClient()}
}

func (p *YoutubePoster) Platform() string { return "youtube" }

// Post uploads the video at contentURL through the YouTube Data API
// resumable upload.
func (p *YoutubePoster) Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	if contentURL == "" {
		return failure("youtube requires a video; no content url given")
	}

	token := &oauth2.Token{AccessToken: conn.AccessToken}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return failure("error creating youtube service: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", contentURL, nil)
	if err != nil {
		return failure("error creating request: %v", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return failure("error downloading video: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure("video download returned status %d", resp.StatusCode)
	}

	title := cfg.Title
	if title == "" {
		title = content
	}

	privacy := cfg.PrivacyLevel
	if privacy == "" {
		privacy = "public"
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: content,
			CategoryId:  "22",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: privacy,
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	uploaded, err := call.Media(io.Reader(resp.Body)).Do()
	if err != nil {
		return failure("error uploading video: %v", err)
	}
	if uploaded.Id == "" {
		return failure("youtube returned no video id")
	}

	return transfer.PostResult{
		Success:         true,
		PlatformPostID:  uploaded.Id,
		PlatformPostURL: fmt.Sprintf("https://youtu.be/%s", uploaded.Id),
	}
}
