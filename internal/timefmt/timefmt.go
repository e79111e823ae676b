// Package timefmt renders absolute timestamps as relative, human-readable ages.
package timefmt

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Clock supplies the current time. Services take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// Since describes t relative to now: "3 days ago", "now", "2 hours from now".
// Bucketing thresholds are go-humanize's.
func Since(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
