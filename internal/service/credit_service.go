package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
)

var (
	// ErrInsufficientCredits maps to 402 at the API layer.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrForbidden maps to 403 at the API layer.
	ErrForbidden = errors.New("credit action targets another user")
)

type CreditService interface {
	Overview(ctx context.Context, userID int64) (*transfer.CreditOverview, error)
	// Apply executes a ledger action on behalf of callerID. Actions
	// whose UserID differs from the caller are rejected before any
	// read or write happens.
	Apply(ctx context.Context, callerID int64, action transfer.CreditAction) (float64, error)
	// DeductForGeneration charges a completed generation. Amount and
	// balance move in one transaction with the ledger insert.
	DeductForGeneration(ctx context.Context, userID int64, amount float64, description, referenceID string) (*transfer.DeductResult, error)
	HasBalance(ctx context.Context, userID int64, amount float64) (bool, float64, error)
}

type creditService struct {
	c repository.CreditRepository
}

func NewCreditService(c repository.CreditRepository) CreditService {
	return &creditService{
		c: c,
	}
}

func (s *creditService) Overview(ctx context.Context, userID int64) (*transfer.CreditOverview, error) {
	balance, err := s.c.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting credit balance")
	}

	history, err := s.c.History(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("Error getting credit history")
	}

	return &transfer.CreditOverview{
		Balance: balance,
		History: history,
	}, nil
}

func (s *creditService) Apply(ctx context.Context, callerID int64, action transfer.CreditAction) (float64, error) {
	if action.UserID != callerID {
		slog.Info(ErrForbidden.Error())
		return 0, ErrForbidden
	}

	if action.Amount <= 0 {
		err := errors.New("Amount must be positive")
		slog.Info(err.Error())
		return 0, err
	}

	switch action.Action {
	case models.TransactionUsage:
		ok, balance, err := s.c.Deduct(ctx, action.UserID, action.Amount, action.Description, action.ReferenceID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return balance, ErrInsufficientCredits
		}
		return balance, nil
	case models.TransactionPurchase, models.TransactionRefund, models.TransactionBonus:
		return s.c.Add(ctx, action.UserID, action.Amount, action.Action, action.Description, action.ReferenceID)
	default:
		err := fmt.Errorf("Unknown credit action: %s", action.Action)
		slog.Info(err.Error())
		return 0, err
	}
}

func (s *creditService) DeductForGeneration(ctx context.Context, userID int64, amount float64, description, referenceID string) (*transfer.DeductResult, error) {
	ok, balance, err := s.c.Deduct(ctx, userID, amount, description, referenceID)
	if err != nil {
		return nil, err
	}

	return &transfer.DeductResult{
		Success: ok,
		Balance: balance,
	}, nil
}

func (s *creditService) HasBalance(ctx context.Context, userID int64, amount float64) (bool, float64, error) {
	balance, err := s.c.Balance(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	return balance >= amount, balance, nil
}
