package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// StateRepo persists the OAuth2 state parameter for the duration of a
// handshake. Each state is single-use: ConsumeState reads and deletes it in
// one round trip so a replayed callback cannot match twice.
type StateRepo struct{ RDB *redis.Client }

func NewStateRepo(rdb *redis.Client) *StateRepo { return &StateRepo{RDB: rdb} }

// SaveState records the state with the provider name as its value.
func (r *StateRepo) SaveState(ctx context.Context, state, provider string, ttl time.Duration) error {
	return r.RDB.Set(ctx, stateKeyPrefix+state, provider, ttl).Err()
}

// ConsumeState returns the provider the state was issued for and deletes the
// record. Unknown or already-consumed states yield ErrNoState.
func (r *StateRepo) ConsumeState(ctx context.Context, state string) (string, error) {
	v, err := r.RDB.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoState
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
