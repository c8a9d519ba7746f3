// Package runlock provides a Redis-backed advisory lock ensuring at most one
// bot invocation mutates the store at a time. Overlapping triggers could
// otherwise double-generate a pool or double-publish a trending post.
// The lock is optional: without Redis the bot relies on the external
// trigger being non-overlapping.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockKey = "murmur:run-lock"
	lockTTL = 10 * time.Minute
)

// Lock is a single advisory run lock.
type Lock struct {
	client *redis.Client
	token  string
}

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New creates a lock bound to this invocation. token must be unique per
// invocation so only the holder can release the lock.
func New(client *redis.Client, token string) *Lock {
	return &Lock{client: client, token: token}
}

// Acquire attempts to take the run lock. Returns false when another
// invocation currently holds it. The TTL bounds the damage of a crashed
// holder that never released.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, l.token, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("runlock acquire: %w", err)
	}
	return ok, nil
}

// releaseScript deletes the lock only when this invocation still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Release frees the lock if this invocation still holds it.
func (l *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey}, l.token).Err(); err != nil {
		return fmt.Errorf("runlock release: %w", err)
	}
	return nil
}
