package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/filter"
)

// ActorHeader names the person behind a mutation. It is recorded in the
// audit log and the equipment history, not authenticated.
const ActorHeader = "X-Actor"

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 1000

// maxPaginationOffset caps the maximum offset for paginated queries.
const maxPaginationOffset = 100000

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxPaginationLimit {
		return maxPaginationLimit
	}

	return v
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	if v > maxPaginationOffset {
		return maxPaginationOffset
	}

	return v
}

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return fmt.Errorf("id must not be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("id exceeds maximum length of 255")
	}
	return nil
}

// parseDateQuery reads an optional date query parameter. Absent or blank
// values yield the zero time.
func parseDateQuery(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}

	t, err := filter.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date (YYYY-MM-DD or RFC3339)", key)
	}

	return t, nil
}

func actor(c *gin.Context) string {
	a := strings.TrimSpace(c.GetHeader(ActorHeader))
	if len(a) > 255 {
		a = a[:255]
	}
	return a
}

// actorContext carries the X-Actor header on the request context so services
// can attribute audit entries without it being threaded through every call.
func actorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a := actor(c); a != "" {
			c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), a))
		}
		c.Next()
	}
}
