package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "feedbackrelay:lock:"

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker hands out the scheduler leases shared by relay replicas. A lease
// token is "<owner>/<uuid>", so the holder of a busy job can be read back
// with Holder. Only the token returned by TryLock releases its lease.
type Locker struct {
	client *redis.Client
	script *redis.Script
	owner  string
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		owner:  replicaOwner(),
	}
}

// replicaOwner names this process as host:pid.
func replicaOwner() string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}

func leaseToken(owner string) string {
	return owner + "/" + uuid.NewString()
}

// LeaseOwner strips the random suffix from a lease token.
func LeaseOwner(token string) string {
	if i := strings.LastIndex(token, "/"); i >= 0 {
		return token[:i]
	}
	return token
}

func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, errors.New("lock client not configured")
	}
	if name == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	token := leaseToken(l.owner)
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+name, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Holder reports which replica holds the lease, or "" when it is free.
func (l *Locker) Holder(ctx context.Context, name string) (string, error) {
	if l == nil || l.client == nil || name == "" {
		return "", nil
	}
	token, err := l.client.Get(ctx, lockKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return LeaseOwner(token), nil
}

func (l *Locker) Release(ctx context.Context, name, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if name == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{lockKeyPrefix + name}, token).Err()
}
