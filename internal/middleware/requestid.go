package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gmaohq/gmao/internal/httputil"
)

const (
	// RequestIDKey is the gin context key for the canonical request ID.
	RequestIDKey = httputil.RequestIDKey

	// RequestIDHeader carries the request ID on responses.
	RequestIDHeader = "X-Request-ID"

	// clientRequestIDKey holds an X-Request-ID sent by the caller. It is
	// logged next to the server ID but never echoed back.
	clientRequestIDKey = "client_request_id"

	maxClientRequestID = 128
)

// RequestID assigns every request a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			if len(clientID) > maxClientRequestID {
				clientID = clientID[:maxClientRequestID]
			}
			c.Set(clientRequestIDKey, clientID)
		}

		id := uuid.NewString()
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
