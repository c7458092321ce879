package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/respond"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/utils"
)

// Buckets idle for this long are dropped once the table is full.
const bucketIdleTTL = 15 * time.Minute

type RateLimitConfig struct {
	Burst      int // attempts allowed at once
	PerMinute  int // refill rate
	MaxEntries int // tracked ips before idle buckets are evicted; 0 means unbounded
	TrustProxy bool
	Now        func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// limiter is a token bucket per client ip behind a single lock.
type limiter struct {
	burst   float64
	perSec  float64
	max     int
	mu      sync.Mutex
	buckets map[string]*bucket
}

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{
		burst:   float64(max(cfg.Burst, 1)),
		perSec:  float64(max(cfg.PerMinute, 1)) / 60,
		max:     cfg.MaxEntries,
		buckets: make(map[string]*bucket),
	}
}

// take spends one token for ip. When none is left it returns the seconds
// until the next one.
func (l *limiter) take(ip string, now time.Time) (remaining, retryAfter int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, found := l.buckets[ip]
	if !found {
		if l.max > 0 && len(l.buckets) >= l.max {
			l.evict(now)
		}
		b = &bucket{tokens: l.burst, seen: now}
		l.buckets[ip] = b
	}
	if d := now.Sub(b.seen).Seconds(); d > 0 {
		b.tokens = math.Min(l.burst, b.tokens+d*l.perSec)
	}
	b.seen = now

	if b.tokens < 1 {
		return 0, max(int(math.Ceil((1-b.tokens)/l.perSec)), 1), false
	}
	b.tokens--
	return int(b.tokens), 0, true
}

func (l *limiter) evict(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.seen) > bucketIdleTTL {
			delete(l.buckets, ip)
		}
	}
}

// RateLimit throttles requests per client ip and answers 429 with
// Retry-After once the bucket is empty.
func RateLimit(cfg RateLimitConfig, log logger.Logger) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	limit := strconv.Itoa(int(l.burst))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, cfg.TrustProxy)
			remaining, retry, ok := l.take(ip, now())

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				log.Warn("rate limited", logger.String("ip", ip), logger.String("path", r.URL.Path))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				respond.Error(w, log, apperr.New(apperr.CodeTooManyRequests,
					"Too many attempts. Try again in "+strconv.Itoa(retry)+" seconds.", http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
