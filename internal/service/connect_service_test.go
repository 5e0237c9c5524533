package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/contentforge/backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectFixture() (ConnectService, *fakeSocialAccountRepo) {
	repo := newFakeSocialAccountRepo()
	cfg := config.Config{
		SecretKey:           testSecretKey,
		TwitterClientID:     "tw-client",
		TwitterClientSecret: "tw-secret",
		TwitterRedirectURI:  "https://app.example.com/callback",
	}
	return NewConnectService(cfg, repo), repo
}

func TestStateRoundTrip(t *testing.T) {
	state, err := encodeState(42)
	require.NoError(t, err)

	decoded, err := decodeState(state)
	require.NoError(t, err)
	assert.Equal(t, int64(42), decoded.UserID)
	assert.NotEmpty(t, decoded.Nonce)
}

func TestCallbackRejectsForeignState(t *testing.T) {
	s, _ := newConnectFixture()

	state, err := encodeState(42)
	require.NoError(t, err)

	err = s.Callback(context.Background(), 7, transfer.ConnectRequest{
		Platform: "twitter",
		Code:     "auth-code",
		State:    state,
	})
	require.ErrorIs(t, err, ErrStateMismatch)
}

func TestCallbackRejectsMissingCodeOrState(t *testing.T) {
	s, _ := newConnectFixture()

	err := s.Callback(context.Background(), 7, transfer.ConnectRequest{Platform: "twitter", Code: "x"})
	assert.Error(t, err)

	err = s.Callback(context.Background(), 7, transfer.ConnectRequest{Platform: "twitter", State: "x"})
	assert.Error(t, err)
}

func TestGetAuthURLCarriesState(t *testing.T) {
	s, _ := newConnectFixture()

	authURL, err := s.GetAuthURL(context.Background(), "twitter", 42)
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(authURL, TWITTER_AUTH_URL))

	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	decoded, err := decodeState(state)
	require.NoError(t, err)
	assert.Equal(t, int64(42), decoded.UserID)
}

func TestGetAuthURLUnknownPlatform(t *testing.T) {
	s, _ := newConnectFixture()

	_, err := s.GetAuthURL(context.Background(), "friendster", 42)
	assert.Error(t, err)
}

func TestDisconnectNullsTokensKeepsRow(t *testing.T) {
	s, repo := newConnectFixture()

	token, err := utils.Encrypt([]byte("tok"), []byte(testSecretKey))
	require.NoError(t, err)

	id, err := repo.Upsert(context.Background(), &models.SocialAccount{
		UserID:      1,
		Platform:    "twitter",
		AccountID:   "acct",
		AccessToken: token,
	})
	require.NoError(t, err)

	require.NoError(t, s.Disconnect(context.Background(), 1, id))

	acc, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, acc.IsActive)
	assert.Empty(t, acc.AccessToken)
	assert.Empty(t, acc.RefreshToken)
}

func TestDisconnectChecksOwnership(t *testing.T) {
	s, repo := newConnectFixture()

	id, err := repo.Upsert(context.Background(), &models.SocialAccount{
		UserID:    1,
		Platform:  "twitter",
		AccountID: "acct",
	})
	require.NoError(t, err)

	err = s.Disconnect(context.Background(), 2, id)
	assert.Error(t, err)
}

func TestUpsertReusesExistingConnection(t *testing.T) {
	_, repo := newConnectFixture()

	first, err := repo.Upsert(context.Background(), &models.SocialAccount{
		UserID:    1,
		Platform:  "twitter",
		AccountID: "acct",
	})
	require.NoError(t, err)

	second, err := repo.Upsert(context.Background(), &models.SocialAccount{
		UserID:    1,
		Platform:  "twitter",
		AccountID: "acct",
	})
	require.NoError(t, err)

	// Reconnecting the same account reuses the row.
	assert.Equal(t, first, second)
}
