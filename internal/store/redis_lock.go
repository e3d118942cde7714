package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const lockRetryInterval = 25 * time.Millisecond

// RedisSerializer serializes writers across processes that share a redis
// backed store. The lock expires after ttl so a crashed writer cannot block
// the others forever.
type RedisSerializer struct {
	client *redis.Client
	script *redis.Script
	key    string
	ttl    time.Duration
}

func NewRedisSerializer(client *redis.Client, key string, ttl time.Duration) *RedisSerializer {
	return &RedisSerializer{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		key:    key,
		ttl:    ttl,
	}
}

func (s *RedisSerializer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	token, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.script.Run(context.WithoutCancel(ctx), s.client, []string{s.key}, token).Err()
	}()
	return fn(ctx)
}

func (s *RedisSerializer) acquire(ctx context.Context) (string, error) {
	if s.key == "" {
		return "", errors.New("lock key is empty")
	}
	if s.ttl <= 0 {
		return "", errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()
	for {
		ok, err := s.client.SetNX(ctx, s.key, token, s.ttl).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
