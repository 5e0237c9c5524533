package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/contentforge/backend/pkg/utils"
)

const maxKeysPerUser = 5

type ApiKeyService interface {
	// Create returns the plaintext key. It is shown once; listings
	// only ever carry the masked form.
	Create(ctx context.Context, userID int64) (string, error)
	List(ctx context.Context, userID int64) ([]*transfer.ApiKeyInfo, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) (string, error) {
	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(keys) >= maxKeysPerUser {
		err = fmt.Errorf("Only %d API Keys can be created.", maxKeysPerUser)
		slog.Info(err.Error())
		return "", err
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("Error generating API key")
	}

	apiKey := &models.ApiKey{
		UserID: userID,
		ApiKey: key,
	}

	_, err = s.k.Create(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("Error saving API key")
	}
	return key, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	userID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return 0, err
	}

	if !isExist {
		err = errors.New("Key doesn't exist")
		return 0, err
	}

	return *userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*transfer.ApiKeyInfo, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting API keys")
	}

	out := make([]*transfer.ApiKeyInfo, 0, len(apiKeys))
	for _, k := range apiKeys {
		out = append(out, &transfer.ApiKeyInfo{
			ID:        k.ID,
			ApiKey:    maskKey(k.ApiKey),
			CreatedAt: k.CreatedAt,
		})
	}
	return out, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if keyID == 0 {
		err = errors.New("KeyID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Key doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.k.Remove(ctx, keyID)
	if err != nil {
		return err
	}
	return nil
}

// maskKey keeps a short prefix so users can tell keys apart.
func maskKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
