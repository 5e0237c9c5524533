package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
)

type NotificationService interface {
	List(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

type notificationService struct {
	n repository.NotificationRepository
}

func NewNotificationService(n repository.NotificationRepository) NotificationService {
	return &notificationService{
		n: n,
	}
}

func (s *notificationService) List(ctx context.Context, userID int64) ([]*models.Notification, error) {
	notifications, err := s.n.ListByUserID(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("Error getting notifications")
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if notificationID == 0 {
		err := errors.New("NotificationID is not valid")
		slog.Info(err.Error())
		return err
	}

	return s.n.MarkRead(ctx, userID, notificationID)
}
