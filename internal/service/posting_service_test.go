package service

import (
	"context"
	"testing"
	"time"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/platforms"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/contentforge/backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type stubPoster struct {
	platform string
	result   transfer.PostResult
	calls    int
	gotConn  platforms.Connection
}

func (p *stubPoster) Platform() string { return p.platform }

func (p *stubPoster) Post(ctx context.Context, conn platforms.Connection, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	p.calls++
	p.gotConn = conn
	return p.result
}

func newPostingFixture(t *testing.T, poster *stubPoster) (PostingService, *fakeQueueRepo, *fakeSocialAccountRepo, *fakeNotificationRepo) {
	t.Helper()

	registry, err := platforms.NewRegistry(poster)
	require.NoError(t, err)

	queueRepo := newFakeQueueRepo()
	accountRepo := newFakeSocialAccountRepo()
	notifRepo := &fakeNotificationRepo{}

	cfg := config.Config{SecretKey: testSecretKey}
	s := NewPostingService(cfg, registry, queueRepo, accountRepo, notifRepo)
	return s, queueRepo, accountRepo, notifRepo
}

func seedAccount(t *testing.T, repo *fakeSocialAccountRepo, userID int64, platform string) int64 {
	t.Helper()

	token, err := utils.Encrypt([]byte("platform-token"), []byte(testSecretKey))
	require.NoError(t, err)

	id, err := repo.Upsert(context.Background(), &models.SocialAccount{
		UserID:      userID,
		Platform:    platform,
		AccountID:   "acct-1",
		AccessToken: token,
	})
	require.NoError(t, err)
	return id
}

func TestDrainDuePostsAndMarksPosted(t *testing.T) {
	poster := &stubPoster{
		platform: "twitter",
		result:   transfer.PostResult{Success: true, PlatformPostID: "tw-1"},
	}
	s, queueRepo, accountRepo, notifRepo := newPostingFixture(t, poster)
	accID := seedAccount(t, accountRepo, 1, "twitter")

	itemID, err := queueRepo.Create(context.Background(), &models.PostingQueueItem{
		UserID:       1,
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello world",
		ScheduledFor: time.Now().Add(-time.Minute),
		Status:       models.QueueStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, s.DrainDue(context.Background()))

	assert.Equal(t, 1, poster.calls)
	// Adapter received the decrypted token, not the stored ciphertext.
	assert.Equal(t, "platform-token", poster.gotConn.AccessToken)
	assert.Contains(t, queueRepo.posted, itemID)
	assert.Equal(t, models.QueueStatusPosted, queueRepo.items[itemID].Status)
	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, "post_published", notifRepo.created[0].Kind)
}

func TestDrainDueSkipsAlreadyClaimedItems(t *testing.T) {
	poster := &stubPoster{platform: "twitter", result: transfer.PostResult{Success: true}}
	s, queueRepo, accountRepo, _ := newPostingFixture(t, poster)
	accID := seedAccount(t, accountRepo, 1, "twitter")

	itemID, err := queueRepo.Create(context.Background(), &models.PostingQueueItem{
		UserID:       1,
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello",
		ScheduledFor: time.Now().Add(-time.Minute),
		Status:       models.QueueStatusPending,
	})
	require.NoError(t, err)
	queueRepo.claimDenied[itemID] = true

	require.NoError(t, s.DrainDue(context.Background()))

	// Another drainer holds the claim; no post attempt happens here.
	assert.Zero(t, poster.calls)
	assert.Empty(t, queueRepo.posted)
}

func TestDrainDueMarksFailedOnAdapterError(t *testing.T) {
	poster := &stubPoster{
		platform: "twitter",
		result:   transfer.PostResult{Success: false, Error: "rate limited by platform"},
	}
	s, queueRepo, accountRepo, notifRepo := newPostingFixture(t, poster)
	accID := seedAccount(t, accountRepo, 1, "twitter")

	itemID, err := queueRepo.Create(context.Background(), &models.PostingQueueItem{
		UserID:       1,
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello",
		ScheduledFor: time.Now().Add(-time.Minute),
		Status:       models.QueueStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, s.DrainDue(context.Background()))

	assert.Equal(t, models.QueueStatusFailed, queueRepo.items[itemID].Status)
	assert.Equal(t, "rate limited by platform", queueRepo.failed[itemID])
	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, "post_failed", notifRepo.created[0].Kind)
}

func TestDrainDueDisconnectedAccountFails(t *testing.T) {
	poster := &stubPoster{platform: "twitter", result: transfer.PostResult{Success: true}}
	s, queueRepo, accountRepo, _ := newPostingFixture(t, poster)
	accID := seedAccount(t, accountRepo, 1, "twitter")
	require.NoError(t, accountRepo.Deactivate(context.Background(), accID))

	itemID, err := queueRepo.Create(context.Background(), &models.PostingQueueItem{
		UserID:       1,
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello",
		ScheduledFor: time.Now().Add(-time.Minute),
		Status:       models.QueueStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, s.DrainDue(context.Background()))

	assert.Zero(t, poster.calls)
	assert.Equal(t, models.QueueStatusFailed, queueRepo.items[itemID].Status)
}

func TestEnqueueValidations(t *testing.T) {
	poster := &stubPoster{platform: "twitter"}
	s, _, accountRepo, _ := newPostingFixture(t, poster)
	accID := seedAccount(t, accountRepo, 1, "twitter")

	// Empty content.
	_, err := s.Enqueue(context.Background(), 1, &transfer.QueueItemCreation{
		AccountID:    accID,
		Platform:     "twitter",
		ScheduledFor: "2025-06-10T09:00",
	})
	assert.Error(t, err)

	// Bad timestamp.
	_, err = s.Enqueue(context.Background(), 1, &transfer.QueueItemCreation{
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello",
		ScheduledFor: "tomorrow",
	})
	assert.Error(t, err)

	// Account belonging to someone else.
	_, err = s.Enqueue(context.Background(), 2, &transfer.QueueItemCreation{
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello",
		ScheduledFor: "2025-06-10T09:00",
	})
	assert.Error(t, err)

	// Valid.
	id, err := s.Enqueue(context.Background(), 1, &transfer.QueueItemCreation{
		AccountID:    accID,
		Platform:     "twitter",
		Content:      "hello",
		ScheduledFor: "2025-06-10T09:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
}
