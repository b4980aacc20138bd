package preference

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "staffadmin:prefs:"

// NewRedisClient connects and pings addr.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("preference: ping redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps one hash per user.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func userKey(userID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (s *RedisStore) Get(ctx context.Context, userID uint) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("preference: load: %w", err)
	}
	return values, nil
}

func (s *RedisStore) Set(ctx context.Context, userID uint, values map[string]string) error {
	if err := Validate(values); err != nil {
		return err
	}
	set, del := split(values)

	key := userKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(set) > 0 {
			pairs := make([]any, 0, 2*len(set))
			for k, v := range set {
				pairs = append(pairs, k, v)
			}
			pipe.HSet(ctx, key, pairs...)
		}
		if len(del) > 0 {
			pipe.HDel(ctx, key, del...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("preference: save: %w", err)
	}
	return nil
}
