package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

// visitor tracks one client's request timestamps over the sliding window.
type visitor struct {
	mu    sync.Mutex
	seen  []time.Time
	limit int
}

// take prunes timestamps older than a minute and records the request if the
// client is under its limit.
func (v *visitor) take(now time.Time) (remaining int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cutoff := now.Add(-time.Minute)
	kept := v.seen[:0]
	for _, t := range v.seen {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	v.seen = kept

	if len(v.seen) >= v.limit {
		return 0, false
	}
	v.seen = append(v.seen, now)
	return v.limit - len(v.seen), true
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
}

func NewRateLimiter(limitPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limitPerMinute,
	}
	go rl.evictLoop()
	return rl
}

// evictLoop drops clients that have gone quiet so the visitor map does not
// grow without bound.
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-time.Minute)
		rl.mu.Lock()
		for key, v := range rl.visitors {
			v.mu.Lock()
			if len(v.seen) == 0 || v.seen[len(v.seen)-1].Before(cutoff) {
				delete(rl.visitors, key)
			}
			v.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) visitor(key string) *visitor {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.visitors[key]; ok {
		return v
	}
	v := &visitor{limit: rl.limit}
	rl.visitors[key] = v
	return v
}

// clientKey identifies the caller: the API key when one is presented,
// otherwise the remote IP with the ephemeral port stripped so reconnects
// share a window.
func clientKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func RateLimit(limitPerMinute int) func(http.Handler) http.Handler {
	rl := NewRateLimiter(limitPerMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			remaining, ok := rl.visitor(key).take(time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limitPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				log.Warn().
					Str("request_id", GetRequestID(r.Context())).
					Str("client", key).
					Int("limit_per_minute", limitPerMinute).
					Msg("rate limit exceeded")
				w.Header().Set("Retry-After", "60")
				models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
