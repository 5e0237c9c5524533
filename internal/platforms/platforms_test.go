package platforms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contentforge/backend/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	fb := NewFacebookPoster()
	tw := NewTwitterPoster()

	registry, err := NewRegistry(fb, tw)
	require.NoError(t, err)

	p, err := registry.Resolve("facebook")
	require.NoError(t, err)
	assert.Equal(t, "facebook", p.Platform())

	_, err = registry.Resolve("myspace")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(NewTwitterPoster(), NewTwitterPoster())
	assert.Error(t, err)
}

func TestTwitterPostSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/tweets", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello world", body.Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"12345"}}`))
	}))
	defer server.Close()

	p := NewTwitterPosterWithBaseURL(server.URL)
	result := p.Post(context.Background(), Connection{AccessToken: "tok"}, "hello world", "", transfer.PostConfig{})

	assert.True(t, result.Success)
	assert.Equal(t, "12345", result.PlatformPostID)
	assert.Contains(t, result.PlatformPostURL, "12345")
}

func TestTwitterPostServerErrorNeverPanics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors":[{"message":"something broke"}]}`))
	}))
	defer server.Close()

	p := NewTwitterPosterWithBaseURL(server.URL)
	result := p.Post(context.Background(), Connection{AccessToken: "tok"}, "hello", "", transfer.PostConfig{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.PlatformPostID)
}

func TestTwitterPostMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	p := NewTwitterPosterWithBaseURL(server.URL)
	result := p.Post(context.Background(), Connection{AccessToken: "tok"}, "hello", "", transfer.PostConfig{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestTwitterPostUnreachableHost(t *testing.T) {
	p := NewTwitterPosterWithBaseURL("http://127.0.0.1:1")
	result := p.Post(context.Background(), Connection{AccessToken: "tok"}, "hello", "", transfer.PostConfig{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestFacebookPostSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		// First the page token exchange, then the feed publish.
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"access_token":"page-token"}`))
			return
		}
		require.True(t, strings.HasSuffix(r.URL.Path, "/feed"))
		w.Write([]byte(`{"id":"page_post_1"}`))
	}))
	defer server.Close()

	p := NewFacebookPosterWithBaseURL(server.URL)
	result := p.Post(context.Background(), Connection{AccountID: "page1", AccessToken: "user-token"}, "hello page", "", transfer.PostConfig{})

	assert.True(t, result.Success)
	assert.Equal(t, "page_post_1", result.PlatformPostID)
}

func TestFacebookPostTokenExchangeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"token expired"}}`))
	}))
	defer server.Close()

	p := NewFacebookPosterWithBaseURL(server.URL)
	result := p.Post(context.Background(), Connection{AccountID: "page1", AccessToken: "bad"}, "hello", "", transfer.PostConfig{})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "token exchange")
}
