package transfer

// GenerationOptions is the free-form options blob callers pass along
// with a prompt. Fields irrelevant to the resolved content type are
// ignored by the provider client.
type GenerationOptions struct {
	Model           string  `json:"model"`
	Tone            string  `json:"tone"`
	MaxTokens       int     `json:"max_tokens"`
	Size            string  `json:"size"`
	Voice           string  `json:"voice"`
	DurationSeconds int     `json:"duration_seconds"`
	Temperature     float64 `json:"temperature"`
}

type GenerationRequest struct {
	Type    string            `json:"type"`
	Prompt  string            `json:"prompt"`
	Options GenerationOptions `json:"options"`
}

type GenerationResponse struct {
	Content       string  `json:"content"`
	Charge        float64 `json:"charge"`
	CostPerUnit   float64 `json:"cost_per_unit"`
	ProfitPercent float64 `json:"profit_percent"`
	Provider      string  `json:"provider"`
	ContentType   string  `json:"content_type"`
}
