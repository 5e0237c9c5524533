package models

import "time"

// Settings carries per-user content preferences. Tone is appended to
// generation prompts when the request carries none; Timezone drives
// next-run computation for that user's pipelines.
type Settings struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Tone      string    `db:"tone" json:"tone"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
