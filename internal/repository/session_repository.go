package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// refreshKeyPrefix namespaces session records so they can never collide with
// the limiter or OAuth state keys sharing the same Redis database.
const refreshKeyPrefix = "refresh_token:"

// SessionRepo holds the single live refresh-token record per subject key in
// Redis. Writing a key that already exists overwrites it, which is the
// rotation semantics: the previous token string becomes invalid the instant
// the key is replaced, even though its signature would still verify.
type SessionRepo struct{ RDB *redis.Client }

func NewSessionRepo(rdb *redis.Client) *SessionRepo { return &SessionRepo{RDB: rdb} }

// refreshKey builds the store key for a subject. Key construction is kept in
// one place so a future per-session (multi-device) policy only changes this
// function, not the pipeline.
func refreshKey(subjectKey string) string { return refreshKeyPrefix + subjectKey }

// SaveRefresh writes the refresh token for a subject with the given TTL,
// replacing any previous record (last writer wins).
func (r *SessionRepo) SaveRefresh(ctx context.Context, subjectKey, tok string, ttl time.Duration) error {
	return r.RDB.Set(ctx, refreshKey(subjectKey), tok, ttl).Err()
}

// GetRefresh returns the stored refresh token for a subject, or ErrNoSession
// when the record is absent or empty.
func (r *SessionRepo) GetRefresh(ctx context.Context, subjectKey string) (string, error) {
	v, err := r.RDB.Get(ctx, refreshKey(subjectKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrNoSession
	}
	return v, nil
}

// DeleteRefresh removes the session record for a subject. Deleting an absent
// key is not an error; callers that need to distinguish use GetRefresh first.
func (r *SessionRepo) DeleteRefresh(ctx context.Context, subjectKey string) error {
	return r.RDB.Del(ctx, refreshKey(subjectKey)).Err()
}

// ExistsRefresh reports whether a live session record exists for a subject.
func (r *SessionRepo) ExistsRefresh(ctx context.Context, subjectKey string) (bool, error) {
	n, err := r.RDB.Exists(ctx, refreshKey(subjectKey)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
