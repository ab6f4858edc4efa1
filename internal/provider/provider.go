// Package provider implements the third-party OAuth2 handshake clients. Each
// provider exchanges an authorization code for a provider access token and
// fetches the user's profile with it; everything beyond that identity
// mapping (scopes, provider refresh tokens) stays inside this package.
package provider

import (
	"context"
	"errors"
)

var (
	ErrTokenExchange = errors.New("provider token exchange failed")
	ErrUserInfo      = errors.New("provider user info request failed")
)

// UserInfo is the identity a provider reports after a successful handshake.
// ProviderID is the provider-assigned id, unqualified; callers build the
// subject key as "<provider>_<ProviderID>".
type UserInfo struct {
	ProviderID  string
	DisplayName string
	Email       string
}

// AuthProvider is one configured third-party login integration.
type AuthProvider interface {
	// Name returns the provider key used in routes and subject keys.
	Name() string

	// AuthorizeURL builds the browser redirect target carrying the state.
	AuthorizeURL(state string) string

	// ExchangeCode trades the callback code for a provider access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// GetUserInfo fetches the profile behind a provider access token.
	GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}
