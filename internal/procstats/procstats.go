// Package procstats reports the daemon's own process metrics (CPU,
// memory, goroutine count), grounded on the control plane's metrics
// collector, which samples the same gopsutil process handle under a TTL
// cache to avoid repeated syscalls on a busy status endpoint.
package procstats

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is a point-in-time reading of this process's resource usage.
type Snapshot struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryRSSByte uint64  `json:"memory_rss_bytes"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Collector caches Snapshot for a short TTL so frequent status polling
// doesn't repeatedly hit the OS for process stats.
type Collector struct {
	startedAt time.Time
	ttl       time.Duration

	mu     sync.Mutex
	cached Snapshot
	expiry time.Time
}

// New creates a Collector with the given cache TTL.
func New(ttl time.Duration) *Collector {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Collector{startedAt: time.Now(), ttl: ttl}
}

// Collect returns the current snapshot, refreshing it if the cache expired.
func (c *Collector) Collect() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.expiry) {
		return c.cached
	}

	snap := Snapshot{
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(c.startedAt).Seconds(),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpu, err := proc.CPUPercent(); err == nil {
			snap.CPUPercent = cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			snap.MemoryRSSByte = mem.RSS
		}
	}

	c.cached = snap
	c.expiry = time.Now().Add(c.ttl)
	return snap
}
