package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haneulbooks/storybook-server/internal/config"
)

func newKakaoStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		require.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"kakao-access","token_type":"bearer","expires_in":21599}`))
	})
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer kakao-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":999,"kakao_account":{"email":"kim@example.com","profile":{"nickname":"Kim"}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStubbedKakao(t *testing.T) *KakaoProvider {
	t.Helper()
	srv := newKakaoStub(t)
	return NewKakaoProvider(config.OAuthProviderConfig{
		ClientID:        "client-id",
		ClientSecret:    "client-secret",
		RedirectURI:     "https://api.example/login/oauth2/code/kakao",
		AuthBaseURL:     srv.URL,
		TokenBaseURL:    srv.URL,
		UserInfoBaseURL: srv.URL,
	})
}

func TestKakaoAuthorizeURL(t *testing.T) {
	p := newStubbedKakao(t)

	u, err := url.Parse(p.AuthorizeURL("state-xyz"))
	require.NoError(t, err)
	require.Equal(t, "/oauth/authorize", u.Path)

	q := u.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "state-xyz", q.Get("state"))
	require.Equal(t, "https://api.example/login/oauth2/code/kakao", q.Get("redirect_uri"))
}

func TestKakaoExchangeAndUserInfo(t *testing.T) {
	p := newStubbedKakao(t)
	ctx := context.Background()

	accessToken, err := p.ExchangeCode(ctx, "good-code")
	require.NoError(t, err)
	require.Equal(t, "kakao-access", accessToken)

	info, err := p.GetUserInfo(ctx, accessToken)
	require.NoError(t, err)
	// Kakao reports the id as a number; it crosses into the subject key as a
	// decimal string.
	require.Equal(t, "999", info.ProviderID)
	require.Equal(t, "Kim", info.DisplayName)
	require.Equal(t, "kim@example.com", info.Email)
}

func TestKakaoExchangeRejected(t *testing.T) {
	p := newStubbedKakao(t)

	_, err := p.ExchangeCode(context.Background(), "bad-code")
	require.ErrorIs(t, err, ErrTokenExchange)
}

func TestKakaoUserInfoBadToken(t *testing.T) {
	p := newStubbedKakao(t)

	_, err := p.GetUserInfo(context.Background(), "stale")
	require.ErrorIs(t, err, ErrUserInfo)
}
