package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*transfer.UserInfo, error)
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u  repository.UserRepository
	sa repository.SocialAccountRepository
}

func NewUserService(u repository.UserRepository, sa repository.SocialAccountRepository) UserService {
	return &userService{
		u:  u,
		sa: sa,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*transfer.UserInfo, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Error getting user info")
	}

	if !isExist {
		err = errors.New("User not found")
		slog.Info(err.Error())
		return nil, fmt.Errorf("User doesn't exist")
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, id)
	if err != nil {
		slog.Info(err.Error())
		accounts = nil
	}

	return &transfer.UserInfo{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		ProfilePicture:    user.ProfilePicture,
		Credits:           user.Credits,
		ConnectedAccounts: len(accounts),
	}, nil
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	// Encrypted platform tokens go first so none outlive the user row.
	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("Error removing user")
	}

	for _, acc := range accounts {
		if err := s.sa.Deactivate(ctx, acc.ID); err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("Error removing user")
		}
	}

	return s.u.Remove(ctx, userID)
}
