package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/platforms"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/contentforge/backend/pkg/utils"
)

const drainBatchSize = 20

type PostingService interface {
	Enqueue(ctx context.Context, userID int64, qc *transfer.QueueItemCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error)
	Remove(ctx context.Context, userID, itemID int64) error
	// DrainDue claims and posts every due pending item. Items another
	// drainer claimed first are skipped silently.
	DrainDue(ctx context.Context) error
	// PostNow publishes a single item immediately, bypassing the
	// queue schedule. Used by the pipeline executor.
	PostNow(ctx context.Context, userID, accountID int64, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult
}

type postingService struct {
	cfg      config.Config
	registry *platforms.Registry
	pq       repository.PostingQueueRepository
	sa       repository.SocialAccountRepository
	n        repository.NotificationRepository
}

func NewPostingService(
	cfg config.Config,
	registry *platforms.Registry,
	pq repository.PostingQueueRepository,
	sa repository.SocialAccountRepository,
	n repository.NotificationRepository) PostingService {
	return &postingService{
		cfg:      cfg,
		registry: registry,
		pq:       pq,
		sa:       sa,
		n:        n,
	}
}

func (s *postingService) Enqueue(ctx context.Context, userID int64, qc *transfer.QueueItemCreation) (int64, error) {
	if qc == nil {
		err := errors.New("queue item data is nil")
		slog.Error(err.Error())
		return 0, err
	}

	if qc.Content == "" && qc.ContentURL == "" {
		err := errors.New("content cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	scheduledFor, err := time.Parse("2006-01-02T15:04", qc.ScheduledFor)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Error(err.Error())
		return 0, err
	}

	isValid, err := s.sa.CheckByUserID(ctx, qc.AccountID, userID)
	if err != nil {
		return 0, err
	}
	if !isValid {
		err = errors.New("Social account doesn't exist")
		slog.Info(err.Error())
		return 0, err
	}

	configBlob, err := json.Marshal(qc.PostConfig)
	if err != nil {
		slog.Error(err.Error())
		return 0, err
	}

	item := &models.PostingQueueItem{
		UserID:       userID,
		AccountID:    qc.AccountID,
		Platform:     qc.Platform,
		Content:      qc.Content,
		ContentURL:   qc.ContentURL,
		PostConfig:   string(configBlob),
		ScheduledFor: scheduledFor,
		Status:       models.QueueStatusPending,
	}

	return s.pq.Create(ctx, item)
}

func (s *postingService) List(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error) {
	items, err := s.pq.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posting queue")
	}
	return items, nil
}

func (s *postingService) Remove(ctx context.Context, userID, itemID int64) error {
	var err error

	if itemID == 0 {
		err = errors.New("ItemID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pq.CheckByUserID(ctx, itemID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Queue item doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.pq.Remove(ctx, itemID)
	if err != nil {
		return err
	}
	return nil
}

func (s *postingService) DrainDue(ctx context.Context) error {
	items, err := s.pq.ListDue(ctx, time.Now(), drainBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if len(items) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 10)

	for _, item := range items {
		claimed, err := s.pq.Claim(ctx, item.ID)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if !claimed {
			continue
		}

		semaphore <- struct{}{}
		wg.Add(1)

		go func(item *models.PostingQueueItem) {
			defer wg.Done()
			defer func() { <-semaphore }()
			s.processItem(ctx, item)
		}(item)
	}

	wg.Wait()
	return nil
}

func (s *postingService) processItem(ctx context.Context, item *models.PostingQueueItem) {
	result := s.post(ctx, item.AccountID, item.Platform, item.Content, item.ContentURL, item.PostConfig)

	if result.Success {
		if err := s.pq.MarkPosted(ctx, item.ID, result.PlatformPostID, result.PlatformPostURL); err != nil {
			slog.Info(err.Error())
		}
		s.notify(ctx, item.UserID, "Post published", fmt.Sprintf("Your %s post went live.", item.Platform), "post_published")
		return
	}

	if err := s.pq.MarkFailed(ctx, item.ID, result.Error); err != nil {
		slog.Info(err.Error())
	}
	s.notify(ctx, item.UserID, "Post failed", fmt.Sprintf("Your %s post could not be published: %s", item.Platform, result.Error), "post_failed")
}

func (s *postingService) PostNow(ctx context.Context, userID, accountID int64, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	isValid, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		slog.Info(err.Error())
		return transfer.PostResult{Success: false, Error: err.Error()}
	}
	if !isValid {
		return transfer.PostResult{Success: false, Error: "social account doesn't exist"}
	}

	blob, err := json.Marshal(cfg)
	if err != nil {
		return transfer.PostResult{Success: false, Error: err.Error()}
	}

	acc, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return transfer.PostResult{Success: false, Error: err.Error()}
	}

	return s.post(ctx, accountID, acc.Platform, content, contentURL, string(blob))
}

// post resolves the account and adapter and runs the publish. All
// failures come back as PostResult, never as an error.
func (s *postingService) post(ctx context.Context, accountID int64, platform, content, contentURL, configBlob string) transfer.PostResult {
	acc, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		slog.Info(err.Error())
		return transfer.PostResult{Success: false, Error: "unable to load social account"}
	}

	if !acc.IsActive || acc.AccessToken == "" {
		return transfer.PostResult{Success: false, Error: "social account is disconnected"}
	}

	poster, err := s.registry.Resolve(platform)
	if err != nil {
		slog.Info(err.Error())
		return transfer.PostResult{Success: false, Error: err.Error()}
	}

	accessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return transfer.PostResult{Success: false, Error: "unable to decrypt access token"}
	}

	var postCfg transfer.PostConfig
	if configBlob != "" {
		if err := json.Unmarshal([]byte(configBlob), &postCfg); err != nil {
			slog.Info(err.Error())
			return transfer.PostResult{Success: false, Error: "post config is not valid"}
		}
	}

	conn := platforms.Connection{
		AccountID:   acc.AccountID,
		AccessToken: accessToken,
	}

	return poster.Post(ctx, conn, content, contentURL, postCfg)
}

func (s *postingService) notify(ctx context.Context, userID int64, title, message, kind string) {
	_, err := s.n.Create(ctx, &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	})
	if err != nil {
		slog.Info(err.Error())
	}
}
