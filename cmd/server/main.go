package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/config"
	"github.com/haneulbooks/storybook-server/internal/database"
	"github.com/haneulbooks/storybook-server/internal/handler"
	"github.com/haneulbooks/storybook-server/internal/provider"
	"github.com/haneulbooks/storybook-server/internal/queue"
	"github.com/haneulbooks/storybook-server/internal/repository"
	"github.com/haneulbooks/storybook-server/internal/router"
	"github.com/haneulbooks/storybook-server/internal/service"
	"github.com/haneulbooks/storybook-server/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	// The session store is mandatory: rotation and logout cannot work
	// without it.
	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}

	users := repository.NewUserRepo(db)
	socials := repository.NewSocialUserRepo(db)
	sessions := repository.NewSessionRepo(rdb)
	states := repository.NewStateRepo(rdb)

	resolver := service.NewIdentityResolver(users, socials)
	svc := service.NewTokenService(codec, sessions, resolver, cfg.AccessTTL(), cfg.RefreshTTL())
	svc.Events = queue.Publisher{}

	oauthCfg := config.LoadOAuthConfig()
	providers := make(map[string]provider.AuthProvider, len(oauthCfg.Providers))
	if pc, ok := oauthCfg.Providers["kakao"]; ok {
		providers["kakao"] = provider.NewKakaoProvider(pc)
	}
	if pc, ok := oauthCfg.Providers["google"]; ok {
		providers["google"] = provider.NewGoogleProvider(pc)
	}

	authHandler := handler.NewAuthHandler(users, svc, cfg.BcryptCost)
	oauthHandler := handler.NewOAuthHandler(providers, states, svc, oauthCfg.StateTTL, cfg.FrontendURL)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, codec, svc, authHandler, oauthHandler, config.LoadRateLimitConfig(), rdb)

	// Audit-log consumer; reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
