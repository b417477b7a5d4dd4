// Package filter implements the in-memory filter engines applied to equipment
// history and intervention collections. Filtering is pure and synchronous and
// never reports an error to the caller.
package filter

import (
	"fmt"
	"strings"
	"time"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// dateLayouts are tried in order when parsing stored or user-supplied dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or timestamp. Values without a zone are
// read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// endOfDay returns the last millisecond of t's calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// dateRange is an inclusive range; a zero bound is open.
type dateRange struct {
	from, to time.Time
}

func newDateRange(from, to time.Time) dateRange {
	r := dateRange{from: from}
	if !to.IsZero() {
		r.to = endOfDay(to)
	}
	return r
}

func (r dateRange) active() bool {
	return !r.from.IsZero() || !r.to.IsZero()
}

func (r dateRange) contains(t time.Time) bool {
	if !r.from.IsZero() && t.Before(r.from) {
		return false
	}
	if !r.to.IsZero() && t.After(r.to) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
