package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/pipeline"
	"github.com/haneulbooks/storybook-server/internal/provider"
	"github.com/haneulbooks/storybook-server/internal/repository"
	"github.com/haneulbooks/storybook-server/internal/response"
	"github.com/haneulbooks/storybook-server/internal/service"
)

// refreshCookieTTL bounds how long the browser holds the refresh token
// handed out by the OAuth2 callback.
const refreshCookieTTL = 24 * time.Hour

// OAuthHandler drives the third-party login handshake: redirect out with a
// stored state, then on callback consume the state, resolve the identity and
// hand the client a refresh token. No access token is minted here — the
// client calls /reissue right after the redirect.
type OAuthHandler struct {
	Providers   map[string]provider.AuthProvider
	States      *repository.StateRepo
	Svc         *service.TokenService
	StateTTL    time.Duration
	FrontendURL string
}

func NewOAuthHandler(providers map[string]provider.AuthProvider, states *repository.StateRepo, svc *service.TokenService, stateTTL time.Duration, frontendURL string) *OAuthHandler {
	return &OAuthHandler{
		Providers:   providers,
		States:      states,
		Svc:         svc,
		StateTTL:    stateTTL,
		FrontendURL: frontendURL,
	}
}

// Authorize starts the handshake: GET /oauth2/authorization/:provider.
func (h *OAuthHandler) Authorize(c echo.Context) error {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		return response.Error(c, http.StatusNotFound, response.CodeRequestParsing, "unknown provider")
	}

	state := uuid.NewString()
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.States.SaveState(ctx, state, p.Name(), h.StateTTL); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "authorization failed")
	}
	return c.Redirect(http.StatusFound, p.AuthorizeURL(state))
}

// Callback finishes the handshake: GET /login/oauth2/code/:provider. On
// success the refresh token is set as an http-only cookie and the browser is
// sent back to the configured front-end origin.
func (h *OAuthHandler) Callback(c echo.Context) error {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		return response.Error(c, http.StatusNotFound, response.CodeRequestParsing, "unknown provider")
	}
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return response.Error(c, http.StatusBadRequest, response.CodeRequestParsing, "code and state required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// States are single-use and bound to the provider they were issued for.
	issuedFor, err := h.States.ConsumeState(ctx, state)
	if err != nil || issuedFor != p.Name() {
		return response.Error(c, http.StatusUnauthorized, response.CodeRequestParsing, "invalid oauth state")
	}

	accessToken, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeRequestParsing, "token exchange failed")
	}
	info, err := p.GetUserInfo(ctx, accessToken)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeRequestParsing, "user info request failed")
	}

	refresh, _, err := h.Svc.LoginSocial(ctx, p.Name(), info.ProviderID, info.DisplayName, info.Email)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "social login failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     pipeline.HeaderRefresh,
		Value:    refresh,
		Path:     "/",
		MaxAge:   int(refreshCookieTTL / time.Second),
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, h.FrontendURL)
}
