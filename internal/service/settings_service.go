package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, tone, timezone string) error
	// Location resolves the user's timezone; UTC when unset or
	// unknown.
	Location(ctx context.Context, userID int64) *time.Location
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

func (s *settingsService) GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return &models.Settings{UserID: userID, Timezone: "UTC"}, nil
	}

	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, tone, timezone string) error {
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	settings := models.Settings{
		UserID:   userID,
		Tone:     tone,
		Timezone: timezone,
	}
	return s.sr.Upsert(ctx, &settings)
}

func (s *settingsService) Location(ctx context.Context, userID int64) *time.Location {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil || !isExist || settings.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		slog.Info(err.Error())
		return time.UTC
	}
	return loc
}
