package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpersDefaults(t *testing.T) {
	require.Equal(t, "fallback", envStr("NOT_SET_VAR", "fallback"))
	require.Equal(t, 7, envInt("NOT_SET_VAR", 7))
	require.True(t, envBool("NOT_SET_VAR", true))
	require.Equal(t, time.Minute, envDur("NOT_SET_VAR", time.Minute))
}

func TestEnvHelpersParse(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_INT", "42")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_DUR", "90s")

	require.Equal(t, "value", envStr("X_STR", "fallback"))
	require.Equal(t, 42, envInt("X_INT", 7))
	require.True(t, envBool("X_BOOL", false))
	require.Equal(t, 90*time.Second, envDur("X_DUR", time.Minute))

	// Unparseable values fall back to the default instead of failing.
	t.Setenv("X_INT", "not-a-number")
	require.Equal(t, 7, envInt("X_INT", 7))
}

func TestTTLHelpers(t *testing.T) {
	cfg := Config{AccessTTLMin: 30, RefreshTTLDays: 14}
	require.Equal(t, 30*time.Minute, cfg.AccessTTL())
	require.Equal(t, 14*24*time.Hour, cfg.RefreshTTL())
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	// TTL is stretched so bucket state outlives several refill intervals.
	require.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}

func TestOAuthConfigRegistersOnlyConfiguredProviders(t *testing.T) {
	t.Setenv("KAKAO_CLIENT_ID", "kakao-id")
	t.Setenv("KAKAO_CLIENT_SECRET", "kakao-secret")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	cfg := LoadOAuthConfig()
	require.Contains(t, cfg.Providers, "kakao")
	require.NotContains(t, cfg.Providers, "google")
	require.Equal(t, "kakao-id", cfg.Providers["kakao"].ClientID)
	require.Equal(t, 5*time.Minute, cfg.StateTTL)
}
