package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the V-One client.
var ErrRedisUnavailable = errors.New("credstore: redis unavailable")

// RedisStore persists the credential pair under a single Redis key. It exists
// for deployments where several client processes share one identity (kiosk
// fleets, headless workers) and the pair must outlive any one of them.
//
// RedisStore does not coordinate refreshes between processes; single-flight
// is a per-Client guarantee.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// The pair is stored under "<prefix>:credentials". An empty prefix defaults
// to "vone".
func NewRedisStore(client redis.UniversalClient, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("credstore: redis client required")
	}
	if prefix == "" {
		prefix = "vone"
	}
	return &RedisStore{
		client: client,
		key:    prefix + ":credentials",
	}, nil
}

// Save writes the pair without a TTL; lifetime is governed by the server-side
// refresh token, not by storage expiry.
func (s *RedisStore) Save(ctx context.Context, pair Pair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("credstore: encode pair: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Load returns the stored pair, (nil, nil) when absent or undecodable, and an
// error only when Redis itself cannot be reached.
func (s *RedisStore) Load(ctx context.Context) (*Pair, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, nil
	}
	if !pair.Valid() {
		return nil, nil
	}
	return &pair, nil
}

// Clear deletes the credentials key. Deleting an absent key is not an error.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
