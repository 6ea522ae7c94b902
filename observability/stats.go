package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot served by GET /status.
type Stats struct {
	UptimeSeconds  int64   `json:"uptime_seconds"`
	RequestsServed uint64  `json:"requests_served"`
	AllocMemMb     uint64  `json:"alloc_mem_mb"`
	NumGC          uint32  `json:"num_gc"`
	NumGoroutine   int     `json:"num_goroutine"`
	CPUPercent     float64 `json:"cpu_percent"`
	RSSMemMb       uint64  `json:"rss_mem_mb"`
}

// Monitor aggregates process level metrics. Request counting is atomic so the
// middleware can increment from concurrent handlers.
type Monitor struct {
	log      *slog.Logger
	started  time.Time
	requests uint64
	proc     *process.Process
}

func NewMonitor(log *slog.Logger) *Monitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Snapshot falls back to runtime-only metrics.
		log.Warn("Process metrics unavailable", "err", err)
		proc = nil
	}
	return &Monitor{log: log, started: time.Now(), proc: proc}
}

// CountRequest records one served HTTP request.
func (m *Monitor) CountRequest() {
	atomic.AddUint64(&m.requests, 1)
}

// Snapshot gathers current process and runtime metrics.
func (m *Monitor) Snapshot() Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := Stats{
		UptimeSeconds:  int64(time.Since(m.started).Seconds()),
		RequestsServed: atomic.LoadUint64(&m.requests),
		AllocMemMb:     memStats.Alloc / 1024 / 1024,
		NumGC:          memStats.NumGC,
		NumGoroutine:   runtime.NumGoroutine(),
	}

	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
		if mem, err := m.proc.MemoryInfo(); err == nil && mem != nil {
			stats.RSSMemMb = mem.RSS / 1024 / 1024
		}
	}
	return stats
}
