package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/service"
)

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	cs service.ConnectService
}

func NewTokenRefreshJob(sr repository.SocialAccountRepository, cs service.ConnectService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		cs: cs,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.cs.RefreshToken(ctx, acc); err != nil {
				slog.Info("Unable to refresh token", "platform", acc.Platform, "account_id", acc.ID)
			}
		}(acc)
	}

	wg.Wait()
}
