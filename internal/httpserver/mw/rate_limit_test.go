package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

func TestRateLimitRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{Burst: 2, PerMinute: 6, Now: func() time.Time { return now }}, logger.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	hit := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		r.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1").Code)
	w := hit("10.0.0.1:2")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit("10.0.0.1:3")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "10", w.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2:1").Code)

	now = now.Add(10 * time.Second)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:4").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:5").Code)
}

func TestRateLimitEvictsIdleBuckets(t *testing.T) {
	now := time.Now()
	l := newLimiter(RateLimitConfig{Burst: 1, PerMinute: 1, MaxEntries: 2})
	l.take("a", now)
	l.take("b", now)

	l.take("c", now.Add(bucketIdleTTL+time.Second))
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "c")
}
