package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	cd, err := NewCodec("test-secret")
	require.NoError(t, err)

	raw, err := cd.Issue("alice", "ROLE_USER", CategoryAccess, MethodLocal, time.Minute)
	require.NoError(t, err)

	claims, err := cd.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.SubjectKey())
	require.Equal(t, "ROLE_USER", claims.Role)
	require.Equal(t, CategoryAccess, claims.Category)
	require.Equal(t, MethodLocal, claims.Method)
}

func TestVerifyExpired(t *testing.T) {
	cd, err := NewCodec("test-secret")
	require.NoError(t, err)

	raw, err := cd.Issue("alice", "ROLE_USER", CategoryAccess, MethodLocal, -time.Minute)
	require.NoError(t, err)

	_, err = cd.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, err := NewCodec("secret-a")
	require.NoError(t, err)
	verifier, err := NewCodec("secret-b")
	require.NoError(t, err)

	raw, err := issuer.Issue("alice", "ROLE_USER", CategoryRefresh, MethodLocal, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyGarbage(t *testing.T) {
	cd, err := NewCodec("test-secret")
	require.NoError(t, err)

	_, err = cd.Verify("not.a.token")
	require.ErrorIs(t, err, ErrMalformed)
}

// The category of an expired token must still be readable: the pipeline
// answers an expired refresh token differently from a malformed one.
func TestPeekIgnoresExpiry(t *testing.T) {
	cd, err := NewCodec("test-secret")
	require.NoError(t, err)

	raw, err := cd.Issue("kakao_999", "ROLE_USER", CategoryRefresh, MethodSocial, -time.Hour)
	require.NoError(t, err)

	claims, err := cd.Peek(raw)
	require.NoError(t, err)
	require.Equal(t, CategoryRefresh, claims.Category)
	require.Equal(t, MethodSocial, claims.Method)
	require.Equal(t, "kakao_999", claims.SubjectKey())
}

func TestPeekStillChecksSignature(t *testing.T) {
	issuer, err := NewCodec("secret-a")
	require.NoError(t, err)
	verifier, err := NewCodec("secret-b")
	require.NoError(t, err)

	raw, err := issuer.Issue("alice", "ROLE_USER", CategoryRefresh, MethodLocal, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Peek(raw)
	require.ErrorIs(t, err, ErrMalformed)
}
