package timefmt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/composer-workspace-service/internal/timefmt"
)

func TestSince(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"same instant", now, "now"},
		{"three days ago", now.Add(-72 * time.Hour), "3 days ago"},
		{"one hour ago", now.Add(-time.Hour), "1 hour ago"},
		{"future", now.Add(2 * time.Hour), "2 hours from now"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timefmt.Since(tc.at, now))
		})
	}
}
