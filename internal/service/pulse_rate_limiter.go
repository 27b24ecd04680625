package service

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// SubmissionRateLimiter limita cuantas respuestas puede enviar un participante por ventana.
type SubmissionRateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// respondentKey normaliza y hashea el identificador para no guardar ids crudos
// en el store del limiter.
func respondentKey(key string) string {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:16])
}

type memorySubmissionRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewSubmissionRateLimiter crea un rate limiter en memoria.
func NewSubmissionRateLimiter(window time.Duration, max int) SubmissionRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memorySubmissionRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memorySubmissionRateLimiter) Allow(_ context.Context, key string) bool {
	hashed := respondentKey(key)
	if hashed == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	entries := l.hits[hashed]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[hashed] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[hashed] = kept
	return true
}
