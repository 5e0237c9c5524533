package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentforge/backend/internal/models"
)

type CreditRepository interface {
	Balance(ctx context.Context, userID int64) (float64, error)
	// Deduct atomically decrements users.credits and appends the usage
	// ledger row in one transaction. Returns false without error when
	// the balance is insufficient; no row is written in that case.
	Deduct(ctx context.Context, userID int64, amount float64, description, referenceID string) (bool, float64, error)
	Add(ctx context.Context, userID int64, amount float64, txType, description, referenceID string) (float64, error)
	History(ctx context.Context, userID int64, limit int) ([]*models.CreditTransaction, error)
}

type creditRepository struct {
	db *sql.DB
}

func NewCreditRepository(db *sql.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Balance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := r.db.QueryRowContext(ctx, "SELECT credits FROM users WHERE id = $1", userID).Scan(&balance)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return balance, nil
}

func (r *creditRepository) Deduct(ctx context.Context, userID int64, amount float64, description, referenceID string) (bool, float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return false, 0, err
	}
	defer tx.Rollback()

	var balance float64
	deductQuery := `
		UPDATE users
		SET credits = credits - $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND credits >= $1
		RETURNING credits
	`
	err = tx.QueryRowContext(ctx, deductQuery, amount, userID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			// Insufficient balance. Report the current balance for the
			// client without mutating anything.
			current, berr := r.Balance(ctx, userID)
			if berr != nil {
				return false, 0, berr
			}
			return false, current, nil
		}
		slog.Info(err.Error())
		return false, 0, err
	}

	insertQuery := `
		INSERT INTO credit_transactions (user_id, type, amount, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, insertQuery, userID, models.TransactionUsage, -amount, description, referenceID)
	if err != nil {
		slog.Info(err.Error())
		return false, 0, err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return false, 0, err
	}
	return true, balance, nil
}

func (r *creditRepository) Add(ctx context.Context, userID int64, amount float64, txType, description, referenceID string) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	defer tx.Rollback()

	var balance float64
	addQuery := `
		UPDATE users
		SET credits = credits + $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING credits
	`
	err = tx.QueryRowContext(ctx, addQuery, amount, userID).Scan(&balance)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	insertQuery := `
		INSERT INTO credit_transactions (user_id, type, amount, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, insertQuery, userID, txType, amount, description, referenceID)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return balance, nil
}

func (r *creditRepository) History(ctx context.Context, userID int64, limit int) ([]*models.CreditTransaction, error) {
	query := `
		SELECT id, user_id, type, amount, description, reference_id, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.CreditTransaction
	for rows.Next() {
		var ct models.CreditTransaction
		err := rows.Scan(&ct.ID, &ct.UserID, &ct.Type, &ct.Amount, &ct.Description, &ct.ReferenceID, &ct.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &ct)
	}
	return history, rows.Err()
}
