package transfer

// PostConfig is the platform-agnostic shape queue rows and pipeline
// steps carry; each adapter picks the fields it understands.
type PostConfig struct {
	Title          string   `json:"title"`
	Caption        string   `json:"caption"`
	Hashtags       []string `json:"hashtags"`
	PrivacyLevel   string   `json:"privacy_level"`
	DisableComment bool     `json:"disable_comment"`
	PageID         string   `json:"page_id"`
}

// PostResult is the normalized adapter outcome. Adapters never return
// a Go error to callers; failures arrive as Success=false with a
// non-empty Error.
type PostResult struct {
	Success         bool   `json:"success"`
	PlatformPostID  string `json:"platform_post_id,omitempty"`
	PlatformPostURL string `json:"platform_post_url,omitempty"`
	Error           string `json:"error,omitempty"`
}

type QueueItemCreation struct {
	AccountID    int64      `json:"account_id"`
	Platform     string     `json:"platform"`
	Content      string     `json:"content"`
	ContentURL   string     `json:"content_url"`
	PostConfig   PostConfig `json:"post_config"`
	ScheduledFor string     `json:"scheduled_for"`
}
