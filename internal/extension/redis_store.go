package extension

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/rueidis"
)

// RedisStore keeps issued tokens in Redis with a PX expiry, so entries
// disappear without a sweep.
type RedisStore struct {
	client rueidis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client rueidis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisStore) Put(ctx context.Context, key string, token IssuedToken) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}

	ttl := token.ExpiresAt - r.now().UnixMilli()
	if ttl <= 0 {
		return nil
	}

	cmd := r.client.B().Set().Key(r.prefix + key).Value(string(raw)).PxMilliseconds(ttl).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisStore) Get(ctx context.Context, key string) (IssuedToken, error) {
	cmd := r.client.B().Get().Key(r.prefix + key).Build()
	raw, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return IssuedToken{}, ErrTokenNotFound
		}
		return IssuedToken{}, err
	}

	var token IssuedToken
	if err := json.Unmarshal(raw, &token); err != nil {
		return IssuedToken{}, err
	}
	return token, nil
}

// Sweep is a no-op; Redis evicts expired keys itself.
func (r *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
