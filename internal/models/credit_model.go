package models

import "time"

const (
	TransactionPurchase = "purchase"
	TransactionUsage    = "usage"
	TransactionRefund   = "refund"
	TransactionBonus    = "bonus"
)

// CreditTransaction rows are append-only. The live balance lives on
// users.credits and is mutated in the same SQL transaction as the
// ledger insert, so the two cannot drift.
type CreditTransaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"type"`
	Amount      float64   `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	ReferenceID string    `db:"reference_id" json:"reference_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
