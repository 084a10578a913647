package procstats

import (
	"testing"
	"time"
)

func TestCollectReturnsGoroutineCount(t *testing.T) {
	c := New(time.Minute)
	snap := c.Collect()
	if snap.Goroutines <= 0 {
		t.Errorf("expected positive goroutine count, got %d", snap.Goroutines)
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("expected non-negative uptime, got %f", snap.UptimeSeconds)
	}
}

func TestCollectCachesWithinTTL(t *testing.T) {
	c := New(time.Hour)
	first := c.Collect()
	time.Sleep(time.Millisecond)
	second := c.Collect()

	if first.UptimeSeconds != second.UptimeSeconds {
		t.Error("expected cached snapshot to be returned unchanged within TTL")
	}
}

func TestNewDefaultsNonPositiveTTL(t *testing.T) {
	c := New(0)
	if c.ttl != 30*time.Second {
		t.Errorf("expected default ttl of 30s, got %v", c.ttl)
	}
}
