package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/gmaohq/gmao/internal/metrics"
)

// CacheHeader reports whether a response was served from the response cache.
const CacheHeader = "X-Cache"

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// captureWriter tees the response body into a buffer.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache keeps successful GET responses in memory for a fixed TTL,
// keyed by request URI.
type ResponseCache struct {
	store *gocache.Cache
}

// NewResponseCache creates a ResponseCache whose entries expire after ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{store: gocache.New(ttl, 2*ttl)}
}

// Flush drops every cached response.
func (rc *ResponseCache) Flush() {
	rc.store.Flush()
}

// Handler returns Gin middleware serving GET requests from the cache.
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()

		if v, ok := rc.store.Get(key); ok {
			resp := v.(*cachedResponse)
			metrics.ResponseCacheLookups.WithLabelValues("hit").Inc()
			c.Header(CacheHeader, "HIT")
			c.Data(resp.status, resp.contentType, resp.body)
			c.Abort()

			return
		}

		metrics.ResponseCacheLookups.WithLabelValues("miss").Inc()
		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header(CacheHeader, "MISS")
		c.Next()

		if w.Status() == http.StatusOK {
			rc.store.SetDefault(key, &cachedResponse{
				status:      w.Status(),
				contentType: w.Header().Get("Content-Type"),
				body:        bytes.Clone(w.buf.Bytes()),
			})
		}
	}
}
