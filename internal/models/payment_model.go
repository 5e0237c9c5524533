package models

import "time"

// PaymentEvent records every processed webhook delivery for
// idempotency: a retried delivery with a known event id is skipped.
type PaymentEvent struct {
	ID        int64     `db:"id" json:"id"`
	Gateway   string    `db:"gateway" json:"gateway"`
	EventID   string    `db:"event_id" json:"event_id"`
	EventType string    `db:"event_type" json:"event_type"`
	Payload   string    `db:"payload" json:"payload"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
