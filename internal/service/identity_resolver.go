// Package service orchestrates the token lifecycle: login issues a pair,
// reissue rotates it, logout revokes it. Identity lookups and session state
// are reached through small interfaces so the stores can be swapped or faked.
package service

import (
	"context"
	"fmt"

	"github.com/haneulbooks/storybook-server/internal/model"
	"github.com/haneulbooks/storybook-server/internal/token"
)

// LocalUserStore resolves local (password) accounts by username.
type LocalUserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// SocialUserStore resolves and upserts OAuth2 accounts by account id.
type SocialUserStore interface {
	GetByAccountID(ctx context.Context, accountID string) (model.SocialUser, error)
	Upsert(ctx context.Context, provider, accountID, displayName, email string) (model.SocialUser, error)
}

// ResolvedIdentity is the outcome of an identity lookup, whichever variant
// matched. DisplayName is the username for local users and the provider
// display name for social users.
type ResolvedIdentity struct {
	ID          uint64
	SubjectKey  string
	DisplayName string
	Role        string
	Method      token.AuthMethod
}

// IdentityResolver switches on the authentication-method tag to pick the
// store a subject key belongs to. The role is always re-read from the store
// rather than copied from an old token, so a role change takes effect on the
// next reissue without forcing a logout.
type IdentityResolver struct {
	Locals  LocalUserStore
	Socials SocialUserStore
}

func NewIdentityResolver(locals LocalUserStore, socials SocialUserStore) *IdentityResolver {
	return &IdentityResolver{Locals: locals, Socials: socials}
}

// ResolveForReissue looks up the identity behind a subject key. Errors from
// the stores (including ErrUserNotFound / ErrSocialUserNotFound) pass
// through unchanged.
func (r *IdentityResolver) ResolveForReissue(ctx context.Context, subjectKey string, method token.AuthMethod) (ResolvedIdentity, error) {
	switch method {
	case token.MethodLocal:
		u, err := r.Locals.GetByUsername(ctx, subjectKey)
		if err != nil {
			return ResolvedIdentity{}, err
		}
		return ResolvedIdentity{
			ID:          u.ID,
			SubjectKey:  u.Username,
			DisplayName: u.Username,
			Role:        u.Role,
			Method:      token.MethodLocal,
		}, nil
	case token.MethodSocial:
		u, err := r.Socials.GetByAccountID(ctx, subjectKey)
		if err != nil {
			return ResolvedIdentity{}, err
		}
		return ResolvedIdentity{
			ID:          u.ID,
			SubjectKey:  u.AccountID,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Method:      token.MethodSocial,
		}, nil
	default:
		return ResolvedIdentity{}, fmt.Errorf("unknown auth method %q", method)
	}
}

// UpsertSocial creates or updates a social identity after a successful
// provider handshake and returns the stored row.
func (r *IdentityResolver) UpsertSocial(ctx context.Context, provider, accountID, displayName, email string) (model.SocialUser, error) {
	return r.Socials.Upsert(ctx, provider, accountID, displayName, email)
}
