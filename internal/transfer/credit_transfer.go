package transfer

import "github.com/contentforge/backend/internal/models"

type CreditAction struct {
	Action      string  `json:"action"`
	UserID      int64   `json:"user_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ReferenceID string  `json:"reference_id"`
}

type CreditOverview struct {
	Balance float64                     `json:"balance"`
	History []*models.CreditTransaction `json:"history"`
}

// DeductResult is the structured outcome the generation flow shows to
// clients; insufficiency is not an error here, just Success=false.
type DeductResult struct {
	Success bool    `json:"success"`
	Balance float64 `json:"balance"`
}
