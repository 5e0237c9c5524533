package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
	"github.com/contentforge/backend/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	FACEBOOK_AUTH_URL  = "https://www.facebook.com/v21.0/dialog/oauth"
	INSTAGRAM_AUTH_URL = "https://www.instagram.com/oauth/authorize"
	TWITTER_AUTH_URL   = "https://twitter.com/i/oauth2/authorize"
	LINKEDIN_AUTH_URL  = "https://www.linkedin.com/oauth/v2/authorization"
	TIKTOK_AUTH_URL    = "https://www.tiktok.com/v2/auth/authorize"
	GOOGLE_AUTH_URL    = "https://accounts.google.com/o/oauth2/v2/auth"

	facebookTokenURL  = "https://graph.facebook.com/v21.0/oauth/access_token"
	instagramTokenURL = "https://api.instagram.com/oauth/access_token"
	twitterTokenURL   = "https://api.twitter.com/2/oauth2/token"
	linkedinTokenURL  = "https://www.linkedin.com/oauth/v2/accessToken"
	tiktokTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
)

// ErrStateMismatch maps to 403 at the API layer.
var ErrStateMismatch = errors.New("state does not belong to the authenticated user")

type ConnectService interface {
	GetAuthURL(ctx context.Context, platform string, userID int64) (string, error)
	// Callback exchanges the code, fetches the platform profile, and
	// upserts the social account with encrypted tokens.
	Callback(ctx context.Context, userID int64, req transfer.ConnectRequest) error
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Disconnect(ctx context.Context, userID, accountID int64) error
	RefreshToken(ctx context.Context, acc *models.SocialAccount) error
}

type connectService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewConnectService(cfg config.Config, sa repository.SocialAccountRepository) ConnectService {
	return &connectService{
		cfg: cfg,
		sa:  sa,
	}
}

func encodeState(userID int64) (string, error) {
	nonce, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(transfer.ConnectState{UserID: userID, Nonce: nonce})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeState(state string) (*transfer.ConnectState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return nil, err
	}
	var st transfer.ConnectState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *connectService) GetAuthURL(ctx context.Context, platform string, userID int64) (string, error) {
	state, err := encodeState(userID)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	params := url.Values{}
	params.Add("response_type", "code")
	params.Add("state", state)

	switch platform {
	case "facebook":
		params.Add("client_id", s.cfg.FacebookAppID)
		params.Add("redirect_uri", s.cfg.FacebookRedirectURI)
		params.Add("scope", "pages_manage_posts,pages_read_engagement,pages_show_list")
		return fmt.Sprintf("%s?%s", FACEBOOK_AUTH_URL, params.Encode()), nil

	case "instagram":
		params.Add("client_id", s.cfg.InstagramClientID)
		params.Add("redirect_uri", s.cfg.InstagramRedirectURI)
		params.Add("scope", "instagram_business_basic,instagram_business_content_publish")
		return fmt.Sprintf("%s?%s", INSTAGRAM_AUTH_URL, params.Encode()), nil

	case "twitter":
		params.Add("client_id", s.cfg.TwitterClientID)
		params.Add("redirect_uri", s.cfg.TwitterRedirectURI)
		params.Add("scope", "tweet.read tweet.write users.read offline.access")
		params.Add("code_challenge", "challenge")
		params.Add("code_challenge_method", "plain")
		return fmt.Sprintf("%s?%s", TWITTER_AUTH_URL, params.Encode()), nil

	case "linkedin":
		params.Add("client_id", s.cfg.LinkedinClientID)
		params.Add("redirect_uri", s.cfg.LinkedinRedirectURI)
		params.Add("scope", "openid profile w_member_social")
		return fmt.Sprintf("%s?%s", LINKEDIN_AUTH_URL, params.Encode()), nil

	case "tiktok":
		params.Add("client_key", s.cfg.TiktokClientKey)
		params.Add("redirect_uri", s.cfg.TiktokRedirectURI)
		params.Add("scope", "user.info.basic,user.info.profile,video.publish,video.upload")
		return fmt.Sprintf("%s?%s", TIKTOK_AUTH_URL, params.Encode()), nil

	case "youtube":
		params.Add("client_id", s.cfg.GoogleClientID)
		params.Add("redirect_uri", s.cfg.GoogleRedirectURI)
		params.Add("scope", "https://www.googleapis.com/auth/userinfo.profile https://www.googleapis.com/auth/youtube.upload")
		params.Add("access_type", "offline")
		params.Add("prompt", "consent")
		return fmt.Sprintf("%s?%s", GOOGLE_AUTH_URL, params.Encode()), nil

	default:
		err := fmt.Errorf("Unknown platform: %s", platform)
		slog.Info(err.Error())
		return "", err
	}
}

func (s *connectService) Callback(ctx context.Context, userID int64, req transfer.ConnectRequest) error {
	if req.Code == "" || req.State == "" {
		err := errors.New("code or state is empty")
		slog.Info(err.Error())
		return err
	}

	st, err := decodeState(req.State)
	if err != nil {
		slog.Info(err.Error())
		return errors.New("state is not valid")
	}

	if st.UserID != userID {
		slog.Info(ErrStateMismatch.Error())
		return ErrStateMismatch
	}

	var token *transfer.PlatformToken
	var profile *transfer.PlatformProfile

	switch req.Platform {
	case "facebook":
		token, profile, err = s.exchangeFacebook(ctx, req.Code)
	case "instagram":
		token, profile, err = s.exchangeInstagram(ctx, req.Code)
	case "twitter":
		token, profile, err = s.exchangeTwitter(ctx, req.Code)
	case "linkedin":
		token, profile, err = s.exchangeLinkedin(ctx, req.Code)
	case "tiktok":
		token, profile, err = s.exchangeTiktok(ctx, req.Code)
	case "youtube":
		token, profile, err = s.exchangeGoogle(ctx, req.Code)
	default:
		err = fmt.Errorf("Unknown platform: %s", req.Platform)
		slog.Info(err.Error())
	}
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken := ""
	if token.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	accountInfo := &models.SocialAccount{
		UserID:          userID,
		Platform:        req.Platform,
		AccountID:       profile.AccountID,
		AccountName:     profile.AccountName,
		AccountUsername: profile.Username,
		ProfilePicture:  profile.ProfilePicture,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		TokenExpiresAt:  token.ExpiresAt,
		Scope:           token.Scope,
	}

	_, err = s.sa.Upsert(ctx, accountInfo)
	if err != nil {
		return err
	}

	return nil
}

func (s *connectService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting social accounts")
	}

	return accounts, nil
}

func (s *connectService) Disconnect(ctx context.Context, userID, accountID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if accountID == 0 {
		err = errors.New("AccountID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Social account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	accountInfo, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("Unable to get social account info")
	}

	if accountInfo.AccessToken != "" {
		decryptedAccessToken, err := utils.Decrypt(accountInfo.AccessToken, []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}

		// Revocation failures do not block disconnect; the token is
		// nulled either way.
		switch accountInfo.Platform {
		case "tiktok":
			if err = s.revokeTiktokAccess(decryptedAccessToken); err != nil {
				slog.Info(err.Error())
			}
		case "youtube":
			if err = revokeGoogleAccess(decryptedAccessToken); err != nil {
				slog.Info(err.Error())
			}
		}
	}

	err = s.sa.Deactivate(ctx, accountID)
	if err != nil {
		return fmt.Errorf("Error removing account info")
	}

	return nil
}

func (s *connectService) RefreshToken(ctx context.Context, acc *models.SocialAccount) error {
	if acc.RefreshToken == "" {
		return fmt.Errorf("no refresh token for account %d", acc.ID)
	}

	decryptedRefreshToken, err := utils.Decrypt(acc.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	var token *transfer.PlatformToken

	switch acc.Platform {
	case "tiktok":
		token, err = s.refreshTiktok(ctx, decryptedRefreshToken)
	case "youtube":
		token, err = s.refreshGoogle(ctx, decryptedRefreshToken)
	case "twitter":
		token, err = s.refreshTwitter(ctx, decryptedRefreshToken)
	default:
		return fmt.Errorf("platform %s does not support token refresh", acc.Platform)
	}
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	newRefresh := acc.RefreshToken
	if token.RefreshToken != "" {
		newRefresh, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	updated := *acc
	updated.AccessToken = encryptedAccessToken
	updated.RefreshToken = newRefresh
	updated.TokenExpiresAt = token.ExpiresAt

	return s.sa.SetToken(ctx, acc.UserID, acc.AccessToken, &updated)
}

// GetExpiresAt converts a token lifetime in seconds to a timestamp.
func GetExpiresAt(expiresIn int64) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

type tokenJSON struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

func postForm(ctx context.Context, endpoint string, data url.Values, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("token endpoint returned non-200 status")
		return fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	return nil
}

func getJSON(ctx context.Context, endpoint, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("profile endpoint returned non-200 status")
		return fmt.Errorf("profile endpoint returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *connectService) exchangeFacebook(ctx context.Context, code string) (*transfer.PlatformToken, *transfer.PlatformProfile, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.FacebookAppID)
	data.Add("client_secret", s.cfg.FacebookAppSecret)
	data.Add("redirect_uri", s.cfg.FacebookRedirectURI)
	data.Add("code", code)

	var tok tokenJSON
	if err := postForm(ctx, facebookTokenURL, data, nil, &tok); err != nil {
		return nil, nil, err
	}

	var me struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := getJSON(ctx, "https://graph.facebook.com/v21.0/me?fields=id,name,picture", tok.AccessToken, &me); err != nil {
		return nil, nil, err
	}

	return &transfer.PlatformToken{
			AccessToken: tok.AccessToken,
			ExpiresAt:   GetExpiresAt(tok.ExpiresIn),
			Scope:       tok.Scope,
		}, &transfer.PlatformProfile{
			AccountID:      me.ID,
			AccountName:    me.Name,
			ProfilePicture: me.Picture.Data.URL,
		}, nil
}

func (s *connectService) exchangeInstagram(ctx context.Context, code string) (*transfer.PlatformToken, *transfer.PlatformProfile, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.InstagramClientID)
	data.Add("client_secret", s.cfg.InstagramClientSecret)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.InstagramRedirectURI)
	data.Add("code", code)

	var tok struct {
		AccessToken string `json:"access_token"`
		UserID      int64  `json:"user_id"`
	}
	if err := postForm(ctx, instagramTokenURL, data, nil, &tok); err != nil {
		return nil, nil, err
	}

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := getJSON(ctx, "https://graph.instagram.com/v21.0/me?fields=id,username&access_token="+url.QueryEscape(tok.AccessToken), "", &me); err != nil {
		return nil, nil, err
	}

	// Instagram short-lived tokens last an hour; the refresh job
	// exchanges them before expiry.
	return &transfer.PlatformToken{
			AccessToken: tok.AccessToken,
			ExpiresAt:   GetExpiresAt(3600),
		}, &transfer.PlatformProfile{
			AccountID:   me.ID,
			AccountName: me.Username,
			Username:    me.Username,
		}, nil
}

func (s *connectService) exchangeTwitter(ctx context.Context, code string) (*transfer.PlatformToken, *transfer.PlatformProfile, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.TwitterClientID)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.TwitterRedirectURI)
	data.Add("code", code)
	data.Add("code_verifier", "challenge")

	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(s.cfg.TwitterClientID+":"+s.cfg.TwitterClientSecret)),
	}

	var tok tokenJSON
	if err := postForm(ctx, twitterTokenURL, data, headers, &tok); err != nil {
		return nil, nil, err
	}

	var me struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := getJSON(ctx, "https://api.twitter.com/2/users/me", tok.AccessToken, &me); err != nil {
		return nil, nil, err
	}

	return &transfer.PlatformToken{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			ExpiresAt:    GetExpiresAt(tok.ExpiresIn),
			Scope:        tok.Scope,
		}, &transfer.PlatformProfile{
			AccountID:   me.Data.ID,
			AccountName: me.Data.Name,
			Username:    me.Data.Username,
		}, nil
}

func (s *connectService) exchangeLinkedin(ctx context.Context, code string) (*transfer.PlatformToken, *transfer.PlatformProfile, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.LinkedinClientID)
	data.Add("client_secret", s.cfg.LinkedinClientSecret)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.LinkedinRedirectURI)
	data.Add("code", code)

	var tok tokenJSON
	if err := postForm(ctx, linkedinTokenURL, data, nil, &tok); err != nil {
		return nil, nil, err
	}

	var me struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, "https://api.linkedin.com/v2/userinfo", tok.AccessToken, &me); err != nil {
		return nil, nil, err
	}

	return &transfer.PlatformToken{
			AccessToken: tok.AccessToken,
			ExpiresAt:   GetExpiresAt(tok.ExpiresIn),
			Scope:       tok.Scope,
		}, &transfer.PlatformProfile{
			AccountID:      me.Sub,
			AccountName:    me.Name,
			ProfilePicture: me.Picture,
		}, nil
}

func (s *connectService) exchangeTiktok(ctx context.Context, code string) (*transfer.PlatformToken, *transfer.PlatformProfile, error) {
	data := url.Values{}
	data.Add("client_key", s.cfg.TiktokClientKey)
	data.Add("client_secret", s.cfg.TiktokClientSecret)
	data.Add("code", code)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.TiktokRedirectURI)

	var tok transfer.TiktokTokenResponse
	if err := postForm(ctx, tiktokTokenURL, data, nil, &tok); err != nil {
		return nil, nil, err
	}

	userInfo, err := TiktokUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, nil, err
	}

	return &transfer.PlatformToken{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			ExpiresAt:    GetExpiresAt(int64(tok.ExpiresIn)),
			Scope:        tok.Scope,
		}, &transfer.PlatformProfile{
			AccountID:      userInfo.Data.User.OpenID,
			AccountName:    userInfo.Data.User.DisplayName,
			Username:       userInfo.Data.User.Username,
			ProfilePicture: userInfo.Data.User.AvatarURL,
		}, nil
}

func (s *connectService) exchangeGoogle(ctx context.Context, code string) (*transfer.PlatformToken, *transfer.PlatformProfile, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.GoogleClientID)
	data.Add("client_secret", s.cfg.GoogleClientSecret)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.GoogleRedirectURI)
	data.Add("code", code)

	var tok tokenJSON
	if err := postForm(ctx, googleTokenURL, data, nil, &tok); err != nil {
		return nil, nil, err
	}

	var me struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, "https://www.googleapis.com/oauth2/v1/userinfo", tok.AccessToken, &me); err != nil {
		return nil, nil, err
	}

	return &transfer.PlatformToken{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			ExpiresAt:    GetExpiresAt(tok.ExpiresIn),
			Scope:        tok.Scope,
		}, &transfer.PlatformProfile{
			AccountID:      me.ID,
			AccountName:    me.Name,
			ProfilePicture: me.Picture,
		}, nil
}

func TiktokUserInfo(ctx context.Context, accessToken string) (*transfer.TiktokUserResponse, error) {
	endpoint := "https://open.tiktokapis.com/v2/user/info/?fields=open_id,avatar_url,display_name,username"

	var result transfer.TiktokUserResponse
	if err := getJSON(ctx, endpoint, accessToken, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *connectService) refreshTiktok(ctx context.Context, refreshToken string) (*transfer.PlatformToken, error) {
	data := url.Values{}
	data.Add("client_key", s.cfg.TiktokClientKey)
	data.Add("client_secret", s.cfg.TiktokClientSecret)
	data.Add("grant_type", "refresh_token")
	data.Add("refresh_token", refreshToken)

	var tok transfer.TiktokTokenResponse
	if err := postForm(ctx, tiktokTokenURL, data, nil, &tok); err != nil {
		return nil, err
	}

	return &transfer.PlatformToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    GetExpiresAt(int64(tok.ExpiresIn)),
		Scope:        tok.Scope,
	}, nil
}

func (s *connectService) refreshGoogle(ctx context.Context, refreshToken string) (*transfer.PlatformToken, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.GoogleClientID)
	data.Add("client_secret", s.cfg.GoogleClientSecret)
	data.Add("grant_type", "refresh_token")
	data.Add("refresh_token", refreshToken)

	var tok tokenJSON
	if err := postForm(ctx, googleTokenURL, data, nil, &tok); err != nil {
		return nil, err
	}

	return &transfer.PlatformToken{
		AccessToken: tok.AccessToken,
		ExpiresAt:   GetExpiresAt(tok.ExpiresIn),
		Scope:       tok.Scope,
	}, nil
}

func (s *connectService) refreshTwitter(ctx context.Context, refreshToken string) (*transfer.PlatformToken, error) {
	data := url.Values{}
	data.Add("client_id", s.cfg.TwitterClientID)
	data.Add("grant_type", "refresh_token")
	data.Add("refresh_token", refreshToken)

	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(s.cfg.TwitterClientID+":"+s.cfg.TwitterClientSecret)),
	}

	var tok tokenJSON
	if err := postForm(ctx, twitterTokenURL, data, headers, &tok); err != nil {
		return nil, err
	}

	return &transfer.PlatformToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    GetExpiresAt(tok.ExpiresIn),
		Scope:        tok.Scope,
	}, nil
}

func (s *connectService) revokeTiktokAccess(accessToken string) error {
	data := url.Values{}
	data.Add("client_key", s.cfg.TiktokClientKey)
	data.Add("client_secret", s.cfg.TiktokClientSecret)
	data.Add("token", accessToken)

	resp, err := http.Post(
		"https://open.tiktokapis.com/v2/oauth/revoke/",
		"application/x-www-form-urlencoded",
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func revokeGoogleAccess(accessToken string) error {
	resp, err := http.PostForm("https://oauth2.googleapis.com/revoke", url.Values{"token": {accessToken}})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
