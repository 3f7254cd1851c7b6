package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixed window counter; the first hit in a window sets its expiry
var windowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter counts contributions per key in a fixed window shared by every
// service instance. When redis is unreachable it falls back to a
// process-local window.
type RedisLimiter struct {
	client   redis.Scripter
	window   time.Duration
	prefix   string
	fallback *InMemoryLimiter
	logger   *slog.Logger
}

func NewRedisLimiter(client redis.Scripter, window time.Duration, logger *slog.Logger) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &RedisLimiter{
		client:   client,
		window:   window,
		prefix:   "cashback:rl:",
		fallback: NewInMemoryLimiter(window),
		logger:   logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	if l.client == nil {
		return l.fallback.Allow(ctx, key, limit)
	}

	count, err := windowScript.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		l.logger.Warn("rate limiter redis unavailable, using local window", "key", key, "error", err.Error())
		return l.fallback.Allow(ctx, key, limit)
	}
	return count <= int64(limit), nil
}

type window struct {
	count   int
	resetAt time.Time
}

// InMemoryLimiter is a fixed window limiter local to this process.
type InMemoryLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	windows map[string]*window
}

func NewInMemoryLimiter(d time.Duration) *InMemoryLimiter {
	if d <= 0 {
		d = time.Minute
	}
	return &InMemoryLimiter{
		window:  d,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (l *InMemoryLimiter) Allow(_ context.Context, key string, limit int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.window)}
		l.windows[key] = w
		l.sweep(now)
	}
	w.count++
	return w.count <= limit, nil
}

// sweep drops expired windows so idle keys do not accumulate.
func (l *InMemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}
