package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Gate is the maintenance-mode flag raised while a bulk load or
// derivation is writing to the normalized tables. The reporting front
// end consults it to warn users that query results may be stale.
type Gate interface {
	// Begin raises the flag and returns a release function. The release
	// function must be called on every path, including failures.
	Begin(ctx context.Context) (release func(), err error)
	// Active reports whether the flag is currently raised.
	Active(ctx context.Context) (bool, error)
}

// RedisGate stores the flag in Redis so processes other than this one
// (the web layer in particular) can observe it. The key carries a TTL
// as a safety net against a crashed import leaving the flag up forever.
type RedisGate struct {
	client *redis.Client
	key    string
	ttl    time.Duration

	mu    sync.Mutex
	depth int
}

// NewRedisGate builds a redis-backed gate.
func NewRedisGate(client *redis.Client, key string, ttl time.Duration) *RedisGate {
	if key == "" {
		key = "reporting:maintenance"
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisGate{client: client, key: key, ttl: ttl}
}

// Begin raises the flag. Nested acquisitions (a bulk run wrapping
// individual imports) are counted so the flag drops only when the
// outermost holder releases.
func (g *RedisGate) Begin(ctx context.Context) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.client.Set(ctx, g.key, "1", g.ttl).Err(); err != nil {
		return nil, err
	}
	g.depth++

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.depth--
			if g.depth <= 0 {
				g.depth = 0
				// Release uses a background context: the import's context
				// may already be cancelled when cleanup runs.
				_ = g.client.Del(context.Background(), g.key).Err()
			}
		})
	}, nil
}

// Active reports whether the flag is raised.
func (g *RedisGate) Active(ctx context.Context) (bool, error) {
	n, err := g.client.Exists(ctx, g.key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryGate is an in-process gate used in tests and single-binary
// deployments without Redis.
type MemoryGate struct {
	mu    sync.Mutex
	depth int
}

// NewMemoryGate builds an in-memory gate.
func NewMemoryGate() *MemoryGate {
	return &MemoryGate{}
}

// Begin raises the flag.
func (g *MemoryGate) Begin(ctx context.Context) (func(), error) {
	g.mu.Lock()
	g.depth++
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			if g.depth > 0 {
				g.depth--
			}
			g.mu.Unlock()
		})
	}, nil
}

// Active reports whether the flag is raised.
func (g *MemoryGate) Active(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.depth > 0, nil
}
