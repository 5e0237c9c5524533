// Package platforms contains the social platform post adapters. Each
// adapter translates the generic {content, contentURL, postConfig}
// input into that platform's REST calls and normalizes the outcome to
// a PostResult. Adapters never return a Go error and never panic:
// every failure becomes Success=false with a non-empty Error, and the
// caller decides what to do with the queue row.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/contentforge/backend/internal/provider"
	"github.com/contentforge/backend/internal/transfer"
)

// Connection is the resolved, decrypted view of a social account the
// adapters work with. Token decryption stays with the caller so the
// adapters never see the server secret key.
type Connection struct {
	AccountID   string
	AccessToken string
}

type Poster interface {
	Platform() string
	Post(ctx context.Context, conn Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult
}

type Registry struct {
	posters map[string]Poster
}

func NewRegistry(posters ...Poster) (*Registry, error) {
	r := &Registry{posters: make(map[string]Poster, len(posters))}
	for _, p := range posters {
		if p.Platform() == "" {
			return nil, fmt.Errorf("poster with empty platform name")
		}
		if _, ok := r.posters[p.Platform()]; ok {
			return nil, fmt.Errorf("duplicate poster for platform: %s", p.Platform())
		}
		r.posters[p.Platform()] = p
	}
	return r, nil
}

func (r *Registry) Resolve(platform string) (Poster, error) {
	p, ok := r.posters[platform]
	if !ok {
		return nil, fmt.Errorf("no poster registered for platform %q", platform)
	}
	return p, nil
}

// statusPoll is the shared policy for platforms that process uploads
// asynchronously.
var statusPoll = provider.RetryPolicy{MaxAttempts: 30, Interval: time.Second}

func failure(format string, args ...interface{}) transfer.PostResult {
	msg := fmt.Sprintf(format, args...)
	slog.Info(msg)
	return transfer.PostResult{Success: false, Error: msg}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 90 * time.Second}
}

func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
