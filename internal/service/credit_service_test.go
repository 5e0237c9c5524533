package service

import (
	"context"
	"testing"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRejectsCrossUserAction(t *testing.T) {
	repo := newFakeCreditRepo()
	repo.balances[1] = 100
	repo.balances[2] = 100
	s := NewCreditService(repo)

	_, err := s.Apply(context.Background(), 1, transfer.CreditAction{
		Action: models.TransactionUsage,
		UserID: 2,
		Amount: 50,
	})

	require.ErrorIs(t, err, ErrForbidden)
	// Neither balance moved and nothing hit the ledger.
	assert.Equal(t, 100.0, repo.balances[1])
	assert.Equal(t, 100.0, repo.balances[2])
	assert.Empty(t, repo.ledger)
}

func TestApplyUsageDeductsExactly(t *testing.T) {
	repo := newFakeCreditRepo()
	repo.balances[1] = 10
	s := NewCreditService(repo)

	balance, err := s.Apply(context.Background(), 1, transfer.CreditAction{
		Action:      models.TransactionUsage,
		UserID:      1,
		Amount:      2.5,
		Description: "text generation",
	})

	require.NoError(t, err)
	assert.Equal(t, 7.5, balance)
	require.Len(t, repo.ledger, 1)
	assert.Equal(t, -2.5, repo.ledger[0].Amount)
}

func TestApplyUsageInsufficientBalance(t *testing.T) {
	repo := newFakeCreditRepo()
	repo.balances[1] = 1
	s := NewCreditService(repo)

	balance, err := s.Apply(context.Background(), 1, transfer.CreditAction{
		Action: models.TransactionUsage,
		UserID: 1,
		Amount: 5,
	})

	require.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, 1.0, balance)
	// Failed deduct writes no ledger row.
	assert.Empty(t, repo.ledger)
}

func TestApplyPurchaseAddsCredits(t *testing.T) {
	repo := newFakeCreditRepo()
	s := NewCreditService(repo)

	balance, err := s.Apply(context.Background(), 7, transfer.CreditAction{
		Action:      models.TransactionPurchase,
		UserID:      7,
		Amount:      200,
		ReferenceID: "pay_123",
	})

	require.NoError(t, err)
	assert.Equal(t, 200.0, balance)
	require.Len(t, repo.ledger, 1)
	assert.Equal(t, models.TransactionPurchase, repo.ledger[0].Type)
}

func TestApplyRejectsNonPositiveAmount(t *testing.T) {
	repo := newFakeCreditRepo()
	s := NewCreditService(repo)

	_, err := s.Apply(context.Background(), 1, transfer.CreditAction{
		Action: models.TransactionPurchase,
		UserID: 1,
		Amount: 0,
	})
	assert.Error(t, err)

	_, err = s.Apply(context.Background(), 1, transfer.CreditAction{
		Action: models.TransactionUsage,
		UserID: 1,
		Amount: -3,
	})
	assert.Error(t, err)
}

func TestOverview(t *testing.T) {
	repo := newFakeCreditRepo()
	repo.balances[1] = 42
	s := NewCreditService(repo)

	_, err := s.Apply(context.Background(), 1, transfer.CreditAction{
		Action: models.TransactionBonus,
		UserID: 1,
		Amount: 8,
	})
	require.NoError(t, err)

	overview, err := s.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 50.0, overview.Balance)
	assert.Len(t, overview.History, 1)
}
