package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisLockPrefix = "postcli_lock:"

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLockProvider implements LockProvider using Redis SET NX with an owner token
type RedisLockProvider struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLockProvider(client *redis.Client) *RedisLockProvider {
	return &RedisLockProvider{client: client, tokens: make(map[string]string)}
}

func (r *RedisLockProvider) GetLock(ctx context.Context, name string, duration time.Duration) (bool, error) {
	token := uuid.NewString()
	success, err := r.client.SetNX(ctx, redisLockPrefix+name, token, duration).Result()
	if err != nil || !success {
		return false, err
	}

	r.mu.Lock()
	r.tokens[name] = token
	r.mu.Unlock()
	return true, nil
}

func (r *RedisLockProvider) ReleaseLock(ctx context.Context, name string) error {
	r.mu.Lock()
	token, ok := r.tokens[name]
	delete(r.tokens, name)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, r.client, []string{redisLockPrefix + name}, token).Err()
}
