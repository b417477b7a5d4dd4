// Package middleware provides the gin middleware of the GMAO server.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/gmaohq/gmao/internal/httputil"
	"github.com/gmaohq/gmao/internal/metrics"
)

const (
	// maxBuckets bounds the number of tracked client IPs.
	maxBuckets = 100_000

	// bucketIdle is how long an unused bucket is kept.
	bucketIdle = 10 * time.Minute
)

// RateLimiter applies a token bucket per client IP. Buckets idle for
// bucketIdle are evicted by the cache janitor.
type RateLimiter struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	limit   rate.Limit
	burst   int
}

// NewRateLimiter allows ratePerSec requests per second per IP with the given burst.
func NewRateLimiter(ratePerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: gocache.New(bucketIdle, bucketIdle/2),
		limit:   rate.Limit(ratePerSec),
		burst:   burst,
	}
}

// limiter returns the bucket for ip, or nil when too many clients are tracked.
func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.buckets.Get(ip); ok {
		l := v.(*rate.Limiter)
		rl.buckets.SetDefault(ip, l) // slide the idle expiry
		return l
	}

	if rl.buckets.ItemCount() >= maxBuckets {
		return nil
	}

	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.buckets.SetDefault(ip, l)
	return l
}

// Handler returns the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Proxy headers are not trusted (SetTrustedProxies(nil)), so this is the socket peer.
		l := rl.limiter(c.ClientIP())
		if l == nil {
			metrics.ErrorsTotal.WithLabelValues("rate_limited").Inc()
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")
			return
		}

		if !l.Allow() {
			wait := 1 / float64(rl.limit)
			c.Header("Retry-After", strconv.Itoa(int(math.Max(1, math.Ceil(wait)))))
			metrics.ErrorsTotal.WithLabelValues("rate_limited").Inc()
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}

		c.Next()
	}
}
