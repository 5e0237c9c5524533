package service

import (
	"context"
	"testing"

	"github.com/contentforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (UserService, *fakeUserRepo, *fakeSocialAccountRepo) {
	userRepo := newFakeUserRepo()
	accountRepo := newFakeSocialAccountRepo()
	return NewUserService(userRepo, accountRepo), userRepo, accountRepo
}

func TestGetUserInfoSurfacesCreditsAndAccounts(t *testing.T) {
	s, userRepo, accountRepo := newUserFixture()

	userRepo.users[1] = &models.User{ID: 1, Name: "Ada", Email: "ada@example.com", Credits: 42.5}
	_, err := accountRepo.Upsert(context.Background(), &models.SocialAccount{UserID: 1, Platform: "twitter", AccountID: "a"})
	require.NoError(t, err)
	_, err = accountRepo.Upsert(context.Background(), &models.SocialAccount{UserID: 1, Platform: "linkedin", AccountID: "b"})
	require.NoError(t, err)

	info, err := s.GetUserInfo(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Ada", info.Name)
	assert.Equal(t, 42.5, info.Credits)
	assert.Equal(t, 2, info.ConnectedAccounts)
}

func TestGetUserInfoUnknownUser(t *testing.T) {
	s, _, _ := newUserFixture()

	_, err := s.GetUserInfo(context.Background(), 404)
	assert.Error(t, err)
}

func TestRemoveUserClearsPlatformTokens(t *testing.T) {
	s, userRepo, accountRepo := newUserFixture()

	userRepo.users[1] = &models.User{ID: 1, Name: "Ada"}
	id, err := accountRepo.Upsert(context.Background(), &models.SocialAccount{
		UserID:      1,
		Platform:    "twitter",
		AccountID:   "a",
		AccessToken: "enc-token",
	})
	require.NoError(t, err)

	require.NoError(t, s.RemoveUser(context.Background(), 1))

	assert.Equal(t, []int64{1}, userRepo.removed)

	acc, err := accountRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, acc.IsActive)
	assert.Empty(t, acc.AccessToken)
}
