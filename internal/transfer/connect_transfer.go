package transfer

import "time"

type ConnectRequest struct {
	Platform string `json:"platform"`
	Code     string `json:"code"`
	State    string `json:"state"`
}

// ConnectState is the base64-encoded JSON blob round-tripped through
// the OAuth state parameter; UserID must match the authenticated
// caller on callback.
type ConnectState struct {
	UserID int64  `json:"user_id"`
	Nonce  string `json:"nonce"`
}

// PlatformToken is the normalized token set every connector returns
// from its code exchange.
type PlatformToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scope        string
}

// PlatformProfile identifies the connected account on the platform.
type PlatformProfile struct {
	AccountID      string
	AccountName    string
	Username       string
	ProfilePicture string
}
