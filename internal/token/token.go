// Package token implements the signed-token codec used for both access and
// refresh tokens. Tokens are self-contained HS256 JWTs carrying the subject
// key, role, category (access/refresh) and authentication method
// (local/social). Category and method are part of the signed payload and are
// re-checked on every use: a token minted for one purpose is never accepted
// where the other is required.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Category tags what a token may be used for.
type Category string

const (
	CategoryAccess  Category = "access"
	CategoryRefresh Category = "refresh"
)

// AuthMethod tags which keyspace the subject key belongs to: usernames for
// local accounts, provider-qualified account ids for social accounts.
type AuthMethod string

const (
	MethodLocal  AuthMethod = "local"
	MethodSocial AuthMethod = "social"
)

// Expiry and malformed-signature are distinct failure kinds because the
// pipeline answers them differently (401 "token expired" vs 401 "invalid
// token").
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("malformed token")
)

// Claims is the signed token payload. Subject holds the subject key.
type Claims struct {
	Role     string     `json:"role"`
	Category Category   `json:"category"`
	Method   AuthMethod `json:"auth"`
	jwt.RegisteredClaims
}

// SubjectKey returns the principal identifier embedded in the token.
func (c Claims) SubjectKey() string { return c.Subject }

// Codec signs and verifies tokens with a process-wide HMAC secret injected
// at startup. It keeps no other state and is safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec from the shared signing secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue produces a signed token expiring at now + ttl. Each token carries a
// unique jti: claim timestamps only have second resolution, and rotation
// depends on consecutive refresh tokens never being byte-identical.
func (cd *Codec) Issue(subjectKey, role string, category Category, method AuthMethod, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role:     role,
		Category: category,
		Method:   method,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(cd.secret)
}

// Verify checks signature and expiry and returns the claims. It fails with
// ErrExpired when only the expiry is past and ErrMalformed for everything
// else (bad signature, wrong algorithm, garbage input).
func (cd *Codec) Verify(raw string) (Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, cd.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}
	if !tok.Valid {
		return Claims{}, ErrMalformed
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}
	return *claims, nil
}

// Peek decodes and signature-checks the claims without enforcing expiry.
// Callers must be able to read the category of an expired token before
// deciding how to answer, so expiry is the one validation Peek skips.
func (cd *Codec) Peek(raw string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	tok, err := parser.ParseWithClaims(raw, &Claims{}, cd.keyFunc)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}
	return *claims, nil
}

func (cd *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrMalformed
	}
	return cd.secret, nil
}
