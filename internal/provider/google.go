package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haneulbooks/storybook-server/internal/config"
)

const (
	googleAuthBase     = "https://accounts.google.com"
	googleTokenBase    = "https://oauth2.googleapis.com"
	googleUserInfoBase = "https://www.googleapis.com"
)

// GoogleProvider implements the Google OAuth2 handshake.
type GoogleProvider struct {
	cfg        config.OAuthProviderConfig
	httpClient *http.Client
}

func NewGoogleProvider(cfg config.OAuthProviderConfig) *GoogleProvider {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = googleAuthBase
	}
	if cfg.TokenBaseURL == "" {
		cfg.TokenBaseURL = googleTokenBase
	}
	if cfg.UserInfoBaseURL == "" {
		cfg.UserInfoBaseURL = googleUserInfoBase
	}
	return &GoogleProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (*GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.RedirectURI)
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return p.cfg.AuthBaseURL + "/o/oauth2/v2/auth?" + q.Encode()
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", p.cfg.ClientID)
	data.Set("client_secret", p.cfg.ClientSecret)
	data.Set("redirect_uri", p.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.TokenBaseURL+"/token", strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrTokenExchange, resp.StatusCode, string(body))
	}

	var tokenResp googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	return tokenResp.AccessToken, nil
}

func (p *GoogleProvider) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.cfg.UserInfoBaseURL+"/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrUserInfo, resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	return &UserInfo{
		ProviderID:  info.ID,
		DisplayName: info.Name,
		Email:       info.Email,
	}, nil
}
