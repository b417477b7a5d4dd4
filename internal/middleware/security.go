package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets hardening headers on every response. Paths under
// uploadsPrefix serve equipment and group images, which the web client embeds
// from another origin and may cache.
func SecurityHeaders(uploadsPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		if uploadsPrefix != "" && strings.HasPrefix(c.Request.URL.Path, uploadsPrefix) {
			c.Header("Cross-Origin-Resource-Policy", "cross-origin")
			c.Header("Cache-Control", "public, max-age=3600")
		} else {
			c.Header("Cross-Origin-Resource-Policy", "same-origin")
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
