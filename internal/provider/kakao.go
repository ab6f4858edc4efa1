package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/haneulbooks/storybook-server/internal/config"
)

const (
	kakaoAuthBase     = "https://kauth.kakao.com"
	kakaoUserInfoBase = "https://kapi.kakao.com"
)

// KakaoProvider implements the Kakao OAuth2 handshake. The base URLs come
// from config so tests can point them at a stub server.
type KakaoProvider struct {
	cfg        config.OAuthProviderConfig
	httpClient *http.Client
}

func NewKakaoProvider(cfg config.OAuthProviderConfig) *KakaoProvider {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = kakaoAuthBase
	}
	if cfg.TokenBaseURL == "" {
		cfg.TokenBaseURL = kakaoAuthBase
	}
	if cfg.UserInfoBaseURL == "" {
		cfg.UserInfoBaseURL = kakaoUserInfoBase
	}
	return &KakaoProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (*KakaoProvider) Name() string { return "kakao" }

func (p *KakaoProvider) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.RedirectURI)
	q.Set("state", state)
	return p.cfg.AuthBaseURL + "/oauth/authorize?" + q.Encode()
}

type kakaoTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// kakaoUserInfo mirrors the /v2/user/me response shape. Kakao reports the
// user id as a number and nests profile fields under kakao_account.
type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (p *KakaoProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", p.cfg.ClientID)
	data.Set("client_secret", p.cfg.ClientSecret)
	data.Set("redirect_uri", p.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.TokenBaseURL+"/oauth/token", strings.NewReader(data.Encode()))
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

	var tokenResp kakaoTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	return tokenResp.AccessToken, nil
}

func (p *KakaoProvider) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.cfg.UserInfoBaseURL+"/v2/user/me", nil)
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

	var info kakaoUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	return &UserInfo{
		ProviderID:  strconv.FormatInt(info.ID, 10),
		DisplayName: info.KakaoAccount.Profile.Nickname,
		Email:       info.KakaoAccount.Email,
	}, nil
}
