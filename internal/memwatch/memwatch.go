// Package memwatch provides memory-aware admission control for batch
// dispatch. The requested concurrency ceiling is an upper bound; when
// system memory use crosses the configured threshold the effective
// ceiling degrades toward one in-flight fetch, and it recovers as
// pressure drops.
package memwatch

import (
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultThresholdPercent matches the dispatcher the tool replaces:
// stay below 70% system memory use.
const DefaultThresholdPercent = 70.0

type Usage struct {
	UsedPercent float64
	UsedBytes   uint64
	TotalBytes  uint64
}

type Monitor struct {
	threshold float64
	readMem   func() (*mem.VirtualMemoryStat, error)
}

func New(thresholdPercent float64) *Monitor {
	if thresholdPercent <= 0 || thresholdPercent > 100 {
		thresholdPercent = DefaultThresholdPercent
	}
	return &Monitor{
		threshold: thresholdPercent,
		readMem:   mem.VirtualMemory,
	}
}

// Allow returns the concurrency to use for the next batch: requested
// when memory is below the threshold, scaled down linearly as usage
// climbs from the threshold toward 100%, never below 1. Unavailable
// system stats never block a run.
func (m *Monitor) Allow(requested int) int {
	if requested < 1 {
		requested = 1
	}
	stat, err := m.readMem()
	if err != nil || stat == nil {
		return requested
	}
	if stat.UsedPercent < m.threshold {
		return requested
	}

	headroom := (100 - stat.UsedPercent) / (100 - m.threshold)
	allowed := int(float64(requested) * headroom)
	if allowed < 1 {
		allowed = 1
	}
	return allowed
}

// Snapshot reports current system memory use for metric observers. The
// zero Usage is returned when stats are unavailable.
func (m *Monitor) Snapshot() Usage {
	stat, err := m.readMem()
	if err != nil || stat == nil {
		return Usage{}
	}
	return Usage{
		UsedPercent: stat.UsedPercent,
		UsedBytes:   stat.Used,
		TotalBytes:  stat.Total,
	}
}
