package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisSubmissionWindowScript mantiene un sorted set por respondente con el instante
// (ms) de cada submission aceptada. Descarta las que salieron de la ventana y solo
// registra la nueva si el conteo sigue por debajo del maximo. Devuelve 1 si acepta.
const redisSubmissionWindowScript = `
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", now - window)
if redis.call("ZCARD", KEYS[1]) >= max then
  return 0
end
redis.call("ZADD", KEYS[1], now, ARGV[4])
redis.call("PEXPIRE", KEYS[1], window)
return 1
`

// redisSubmissionRateLimiter es la version compartida entre instancias del limiter
// en memoria: misma ventana deslizante, mismo hash de respondente.
type redisSubmissionRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
	now    func() time.Time
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisSubmissionRateLimiter(client *redis.Client, window time.Duration, max int) SubmissionRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisSubmissionRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "pulse:submissions:",
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Allow falla abierto si Redis no responde.
func (l *redisSubmissionRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	hashed := respondentKey(key)
	if hashed == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	accepted, err := l.client.Eval(ctx, redisSubmissionWindowScript,
		[]string{l.prefix + hashed},
		l.now().UnixMilli(), l.window.Milliseconds(), l.max, uuid.NewString(),
	).Int()
	if err != nil {
		return true
	}
	return accepted == 1
}
