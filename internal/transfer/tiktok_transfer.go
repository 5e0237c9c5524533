package transfer

type TiktokTokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	OpenID           string `json:"open_id"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	RefreshToken     string `json:"refresh_token"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
}

type TiktokUser struct {
	OpenID      string `json:"open_id"`
	AvatarURL   string `json:"avatar_url"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

type TiktokUserResponse struct {
	Data struct {
		User TiktokUser `json:"user"`
	} `json:"data"`
	Error TiktokError `json:"error"`
}

type TiktokPublishResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
	} `json:"data"`
	Error TiktokError `json:"error"`
}

type TiktokStatusResponse struct {
	Data struct {
		Status        string   `json:"status"`
		PublicPostIDs []string `json:"publicaly_available_post_id"`
		FailReason    string   `json:"fail_reason"`
	} `json:"data"`
	Error TiktokError `json:"error"`
}

type TiktokError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}
