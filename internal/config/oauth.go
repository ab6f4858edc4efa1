package config

import (
	"strings"
	"time"
)

// OAuthProviderConfig holds the registration of one third-party login
// provider. The base URLs are configurable so tests can point a provider at
// a local stub server.
type OAuthProviderConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	AuthBaseURL     string
	TokenBaseURL    string
	UserInfoBaseURL string
}

// OAuthConfig collects every configured provider plus the TTL of the state
// parameter persisted during the handshake.
type OAuthConfig struct {
	Providers map[string]OAuthProviderConfig
	StateTTL  time.Duration
}

// LoadOAuthConfig reads provider registrations from the environment. A
// provider is registered only when its client id is set, so deployments can
// enable any subset of kakao/google.
func LoadOAuthConfig() OAuthConfig {
	cfg := OAuthConfig{
		Providers: make(map[string]OAuthProviderConfig),
		StateTTL:  envDur("OAUTH_STATE_TTL", 5*time.Minute),
	}
	for _, name := range []string{"kakao", "google"} {
		upper := strings.ToUpper(name)
		id := envStr(upper+"_CLIENT_ID", "")
		if id == "" {
			continue
		}
		cfg.Providers[name] = OAuthProviderConfig{
			ClientID:        id,
			ClientSecret:    envStr(upper+"_CLIENT_SECRET", ""),
			RedirectURI:     envStr(upper+"_REDIRECT_URI", ""),
			AuthBaseURL:     envStr(upper+"_AUTH_BASE_URL", ""),
			TokenBaseURL:    envStr(upper+"_TOKEN_BASE_URL", ""),
			UserInfoBaseURL: envStr(upper+"_USERINFO_BASE_URL", ""),
		}
	}
	return cfg
}
