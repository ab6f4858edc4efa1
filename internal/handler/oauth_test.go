package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/haneulbooks/storybook-server/internal/model"
	"github.com/haneulbooks/storybook-server/internal/pipeline"
	"github.com/haneulbooks/storybook-server/internal/provider"
	"github.com/haneulbooks/storybook-server/internal/repository"
	"github.com/haneulbooks/storybook-server/internal/service"
	"github.com/haneulbooks/storybook-server/internal/token"
)

type fakeProvider struct{ name string }

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthorizeURL(state string) string {
	return "https://provider.example/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code string) (string, error) {
	if code != "good-code" {
		return "", provider.ErrTokenExchange
	}
	return "provider-access-token", nil
}

func (p *fakeProvider) GetUserInfo(_ context.Context, accessToken string) (*provider.UserInfo, error) {
	if accessToken != "provider-access-token" {
		return nil, provider.ErrUserInfo
	}
	return &provider.UserInfo{ProviderID: "999", DisplayName: "Kim", Email: "kim@example.com"}, nil
}

type oauthFixture struct {
	h      *OAuthHandler
	states *repository.StateRepo
	svc    *service.TokenService
	e      *echo.Echo
}

func newOAuthFixture(t *testing.T) *oauthFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	locals := &fakeLocals{users: map[string]model.User{}}
	socials := &fakeSocials{users: map[string]model.SocialUser{}}

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	svc := service.NewTokenService(codec, repository.NewSessionRepo(rdb),
		service.NewIdentityResolver(locals, socials), 30*time.Minute, 24*time.Hour)

	states := repository.NewStateRepo(rdb)
	h := NewOAuthHandler(
		map[string]provider.AuthProvider{"kakao": &fakeProvider{name: "kakao"}},
		states, svc, 5*time.Minute, "https://front.example/app")
	return &oauthFixture{h: h, states: states, svc: svc, e: echo.New()}
}

func (f *oauthFixture) get(t *testing.T, h echo.HandlerFunc, target, providerParam string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.SetParamNames("provider")
	c.SetParamValues(providerParam)
	_ = h(c)
	return rec
}

func TestAuthorizeRedirectsWithStoredState(t *testing.T) {
	f := newOAuthFixture(t)

	rec := f.get(t, f.h.Authorize, "/oauth2/authorization/kakao", "kakao")
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	// The state parameter on the redirect is the one stored for the callback.
	issuedFor, err := f.states.ConsumeState(context.Background(), state)
	require.NoError(t, err)
	require.Equal(t, "kakao", issuedFor)
}

func TestAuthorizeUnknownProvider(t *testing.T) {
	f := newOAuthFixture(t)

	rec := f.get(t, f.h.Authorize, "/oauth2/authorization/naver", "naver")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackSetsRefreshCookieAndRedirects(t *testing.T) {
	f := newOAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.states.SaveState(ctx, "state-1", "kakao", time.Minute))

	rec := f.get(t, f.h.Callback, "/login/oauth2/code/kakao?code=good-code&state=state-1", "kakao")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://front.example/app", rec.Header().Get(echo.HeaderLocation))

	res := rec.Result()
	var refreshCookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == pipeline.HeaderRefresh {
			refreshCookie = ck
		}
	}
	require.NotNil(t, refreshCookie)
	require.True(t, refreshCookie.HttpOnly)

	claims, err := f.svc.Codec.Verify(refreshCookie.Value)
	require.NoError(t, err)
	require.Equal(t, token.CategoryRefresh, claims.Category)
	require.Equal(t, "kakao_999", claims.SubjectKey())

	// The session store holds the same token the cookie carries.
	stored, err := f.svc.Sessions.GetRefresh(ctx, "kakao_999")
	require.NoError(t, err)
	require.Equal(t, refreshCookie.Value, stored)
}

func TestCallbackStateIsSingleUse(t *testing.T) {
	f := newOAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.states.SaveState(ctx, "state-1", "kakao", time.Minute))

	rec := f.get(t, f.h.Callback, "/login/oauth2/code/kakao?code=good-code&state=state-1", "kakao")
	require.Equal(t, http.StatusFound, rec.Code)

	rec = f.get(t, f.h.Callback, "/login/oauth2/code/kakao?code=good-code&state=state-1", "kakao")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackRejectsForeignState(t *testing.T) {
	f := newOAuthFixture(t)
	ctx := context.Background()

	// A state issued for another provider must not be accepted here.
	require.NoError(t, f.states.SaveState(ctx, "state-1", "google", time.Minute))

	rec := f.get(t, f.h.Callback, "/login/oauth2/code/kakao?code=good-code&state=state-1", "kakao")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackFailedExchange(t *testing.T) {
	f := newOAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.states.SaveState(ctx, "state-1", "kakao", time.Minute))

	rec := f.get(t, f.h.Callback, "/login/oauth2/code/kakao?code=bad-code&state=state-1", "kakao")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackMissingParams(t *testing.T) {
	f := newOAuthFixture(t)

	rec := f.get(t, f.h.Callback, "/login/oauth2/code/kakao?code=good-code", "kakao")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
