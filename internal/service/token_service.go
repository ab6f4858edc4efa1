package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/haneulbooks/storybook-server/internal/auth"
	"github.com/haneulbooks/storybook-server/internal/model"
	"github.com/haneulbooks/storybook-server/internal/queue"
	"github.com/haneulbooks/storybook-server/internal/repository"
	"github.com/haneulbooks/storybook-server/internal/token"
)

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords
	// alike so that login failures cannot be used to probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingRefreshToken is returned when no refresh token accompanies
	// a reissue or logout request.
	ErrMissingRefreshToken = errors.New("refresh token required")

	// ErrMissingSubject is returned when the reissue body carries neither a
	// username nor an account id for the token's auth method.
	ErrMissingSubject = errors.New("reissue request missing subject key")

	// ErrSessionExpired is returned when the session store has no live
	// record for the subject, or when the stored token does not equal the
	// presented one (a rotated-out token being replayed).
	ErrSessionExpired = errors.New("session expired")

	// ErrWrongCategory is returned when an access token is presented where
	// a refresh token is required.
	ErrWrongCategory = errors.New("wrong token category")
)

// SessionStore is the single mutable shared resource of the auth core: the
// key/value store holding one refresh-token record per subject key.
type SessionStore interface {
	SaveRefresh(ctx context.Context, subjectKey, tok string, ttl time.Duration) error
	GetRefresh(ctx context.Context, subjectKey string) (string, error)
	DeleteRefresh(ctx context.Context, subjectKey string) error
}

// EventPublisher pushes auth events to the broker. Publishing is best
// effort; a broker outage never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// TokenPair is one access token and one refresh token minted together.
type TokenPair struct {
	Access  string
	Refresh string
}

// ReissueRequest carries the subject-key candidates from the reissue body.
// The token's auth method decides which field applies.
type ReissueRequest struct {
	Username  string `json:"username"`
	AccountID string `json:"accountId"`
}

// TokenService implements login, reissue (rotation) and logout on top of the
// codec, the session store and the identity resolver.
type TokenService struct {
	Codec      *token.Codec
	Sessions   SessionStore
	Resolver   *IdentityResolver
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Events     EventPublisher // optional; nil disables publishing
}

func NewTokenService(codec *token.Codec, sessions SessionStore, resolver *IdentityResolver, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		Codec:      codec,
		Sessions:   sessions,
		Resolver:   resolver,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Login verifies local credentials and issues a fresh pair. The refresh
// token overwrites any previous session record for the username, which is
// the single-active-session policy: a concurrent login elsewhere invalidates
// this one's predecessor.
func (s *TokenService) Login(ctx context.Context, username, password string) (TokenPair, model.User, error) {
	u, err := s.Resolver.Locals.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, model.User{}, ErrInvalidCredentials
		}
		return TokenPair{}, model.User{}, err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, model.User{}, ErrInvalidCredentials
	}

	pair, err := s.mintPair(u.Username, u.Role, token.MethodLocal)
	if err != nil {
		return TokenPair{}, model.User{}, err
	}
	if err := s.Sessions.SaveRefresh(ctx, u.Username, pair.Refresh, s.RefreshTTL); err != nil {
		return TokenPair{}, model.User{}, err
	}
	s.publish(ctx, queue.EventLogin, u.Username, token.MethodLocal)
	return pair, u, nil
}

// LoginSocial completes an OAuth2 handshake: the social identity is
// upserted and a refresh token is minted and stored. No access token is
// issued here; the client is expected to call reissue right after the
// redirect.
func (s *TokenService) LoginSocial(ctx context.Context, provider, providerID, displayName, email string) (string, model.SocialUser, error) {
	accountID := provider + "_" + providerID
	su, err := s.Resolver.UpsertSocial(ctx, provider, accountID, displayName, email)
	if err != nil {
		return "", model.SocialUser{}, err
	}
	refresh, err := s.Codec.Issue(su.AccountID, su.Role, token.CategoryRefresh, token.MethodSocial, s.RefreshTTL)
	if err != nil {
		return "", model.SocialUser{}, err
	}
	if err := s.Sessions.SaveRefresh(ctx, su.AccountID, refresh, s.RefreshTTL); err != nil {
		return "", model.SocialUser{}, err
	}
	s.publish(ctx, queue.EventLogin, su.AccountID, token.MethodSocial)
	return refresh, su, nil
}

// Reissue rotates a refresh token. This is the only path that compares the
// presented token against the stored one: equality is the replay defense
// that makes a rotated-out token dead even while its signature still
// verifies.
func (s *TokenService) Reissue(ctx context.Context, refreshToken string, req ReissueRequest) (TokenPair, ResolvedIdentity, error) {
	if refreshToken == "" {
		return TokenPair{}, ResolvedIdentity{}, ErrMissingRefreshToken
	}
	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		return TokenPair{}, ResolvedIdentity{}, err
	}
	if claims.Category != token.CategoryRefresh {
		return TokenPair{}, ResolvedIdentity{}, ErrWrongCategory
	}

	subjectKey := req.Username
	if claims.Method == token.MethodSocial {
		subjectKey = req.AccountID
	}
	if subjectKey == "" {
		return TokenPair{}, ResolvedIdentity{}, ErrMissingSubject
	}

	stored, err := s.Sessions.GetRefresh(ctx, subjectKey)
	if err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return TokenPair{}, ResolvedIdentity{}, ErrSessionExpired
		}
		return TokenPair{}, ResolvedIdentity{}, err
	}
	if stored != refreshToken {
		return TokenPair{}, ResolvedIdentity{}, ErrSessionExpired
	}

	ident, err := s.Resolver.ResolveForReissue(ctx, subjectKey, claims.Method)
	if err != nil {
		return TokenPair{}, ResolvedIdentity{}, err
	}

	pair, err := s.mintPair(ident.SubjectKey, ident.Role, ident.Method)
	if err != nil {
		return TokenPair{}, ResolvedIdentity{}, err
	}
	if err := s.Sessions.SaveRefresh(ctx, ident.SubjectKey, pair.Refresh, s.RefreshTTL); err != nil {
		return TokenPair{}, ResolvedIdentity{}, err
	}
	s.publish(ctx, queue.EventReissue, ident.SubjectKey, ident.Method)
	return pair, ident, nil
}

// Logout deletes the session record for a subject. A missing record means
// the session already ended (logout replay or natural TTL expiry) and is
// reported as ErrSessionExpired.
func (s *TokenService) Logout(ctx context.Context, subjectKey string, method token.AuthMethod) error {
	if _, err := s.Sessions.GetRefresh(ctx, subjectKey); err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return ErrSessionExpired
		}
		return err
	}
	if err := s.Sessions.DeleteRefresh(ctx, subjectKey); err != nil {
		return err
	}
	s.publish(ctx, queue.EventLogout, subjectKey, method)
	return nil
}

// NotifyRegistered records a successful local registration on the event
// stream. Registration itself happens in the user repository; this only
// feeds the audit log.
func (s *TokenService) NotifyRegistered(ctx context.Context, username string) {
	s.publish(ctx, queue.EventRegister, username, token.MethodLocal)
}

func (s *TokenService) mintPair(subjectKey, role string, method token.AuthMethod) (TokenPair, error) {
	access, err := s.Codec.Issue(subjectKey, role, token.CategoryAccess, method, s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Codec.Issue(subjectKey, role, token.CategoryRefresh, method, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) publish(ctx context.Context, eventType, subjectKey string, method token.AuthMethod) {
	if s.Events == nil {
		return
	}
	ev := queue.AuthEvent{
		Type:       eventType,
		SubjectKey: subjectKey,
		AuthMethod: string(method),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		log.Printf("auth-events: publish %s failed: %v", eventType, err)
	}
}
