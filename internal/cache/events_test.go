package cache

import (
	"testing"
	"time"
)

func TestEventTTL(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		positive bool
	}{
		{"future event", now.Add(6 * time.Hour), true},
		{"started an hour ago", now.Add(-time.Hour), true},
		{"just inside the linger window", now.Add(-23 * time.Hour), true},
		{"exactly 24h old", now.Add(-24 * time.Hour), false},
		{"long finished", now.Add(-48 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ttl := eventTTL(tt.start.Unix(), now)
			if (ttl > 0) != tt.positive {
				t.Errorf("eventTTL(start=%v) = %v, want positive=%v", tt.start, ttl, tt.positive)
			}
		})
	}
}

func TestEventTTL_FutureEventLingersPastStart(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	start := now.Add(2 * time.Hour)
	ttl := eventTTL(start.Unix(), now)
	if want := 26 * time.Hour; ttl != want {
		t.Errorf("ttl = %v, want %v (start offset + 24h)", ttl, want)
	}
}
