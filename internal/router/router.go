// Package router wires the auth pipeline, middleware and handlers onto the
// Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/haneulbooks/storybook-server/internal/config"
	"github.com/haneulbooks/storybook-server/internal/handler"
	"github.com/haneulbooks/storybook-server/internal/middleware"
	"github.com/haneulbooks/storybook-server/internal/model"
	"github.com/haneulbooks/storybook-server/internal/pipeline"
	"github.com/haneulbooks/storybook-server/internal/service"
	"github.com/haneulbooks/storybook-server/internal/token"
)

// RegisterRoutes registers routes that need no authentication state.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth installs the pipeline and the auth endpoints. Stage order is
// fixed: logout interception first, then access-token validation, then
// credential login. The rate limiter runs before the pipeline so a blocked
// request never reaches credential checking.
func RegisterAuth(e *echo.Echo, codec *token.Codec, svc *service.TokenService, a *handler.AuthHandler, o *handler.OAuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(rlCfg, rdb, "/login", "/reissue", "/join"))
	e.Use(pipeline.Chain(
		pipeline.Logout(codec, svc),
		pipeline.Access(codec),
		pipeline.Login(svc),
	))

	// /login and /logout are owned by their pipeline stages; the bound
	// handler only keeps the router from reporting them unregistered.
	e.POST("/login", pipeline.Terminal)
	e.POST("/logout", pipeline.Terminal)

	e.POST("/join", a.Join)
	e.POST("/reissue", a.Reissue)
	e.GET("/me", a.Me, middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	e.GET("/oauth2/authorization/:provider", o.Authorize)
	e.GET("/login/oauth2/code/:provider", o.Callback)
}
