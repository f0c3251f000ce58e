// Package redis holds the cross-replica lock taken around each scheduler cycle.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// DefaultKey is the lease key used by the recurring scheduler
const DefaultKey = "atena:scheduler:recurring"

var ErrAddrRequired = errors.New("redis address is required")

type client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Options configures the connection and the lease
type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// Lease is a SET NX PX lock with an owner token
type Lease struct {
	client client
	closer func() error
	key    string
	ttl    time.Duration
}

// NewLease connects to Redis and verifies the connection with PING
func NewLease(ctx context.Context, opts Options) (*Lease, error) {
	if opts.Addr == "" {
		return nil, ErrAddrRequired
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	l := newLease(rdb, opts.Key, opts.TTL)
	l.closer = rdb.Close
	return l, nil
}

func newLease(c client, key string, ttl time.Duration) *Lease {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Lease{client: c, key: key, ttl: ttl}
}

// Acquire tries to take the lease. When another holder owns it, acquired is
// false and release is nil.
func (l *Lease) Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error) {
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lease %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to release lease %s: %w", l.key, err)
		}
		return nil
	}
	return release, true, nil
}

// Close closes the underlying connection
func (l *Lease) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer()
}
