package models

import "time"

// Pricing units per content type: text and audio charge per 1k tokens,
// image per generation, video per minute of output.
const (
	PricingPerToken  = "per_token"
	PricingPerUnit   = "per_unit"
	PricingPerMinute = "per_minute"
)

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
	ContentTypeAudio = "audio"
	ContentTypeVideo = "video"
)

type AIProvider struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ContentType string    `db:"content_type" json:"content_type"`
	Model       string    `db:"model" json:"model"`
	CostPerUnit float64   `db:"cost_per_unit" json:"cost_per_unit"`
	PricingUnit string    `db:"pricing_unit" json:"pricing_unit"`
	IsDefault   bool      `db:"is_default" json:"is_default"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
