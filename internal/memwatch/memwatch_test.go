package memwatch

import (
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

func fakeMem(usedPercent float64) func() (*mem.VirtualMemoryStat, error) {
	return func() (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{
			Total:       16 << 30,
			Used:        uint64(float64(16<<30) * usedPercent / 100),
			UsedPercent: usedPercent,
		}, nil
	}
}

func TestAllow_BelowThreshold(t *testing.T) {
	m := New(70)
	m.readMem = fakeMem(40)
	if got := m.Allow(10); got != 10 {
		t.Errorf("Allow(10) = %d, want 10", got)
	}
}

func TestAllow_DegradesUnderPressure(t *testing.T) {
	m := New(70)
	m.readMem = fakeMem(85)
	got := m.Allow(10)
	if got >= 10 || got < 1 {
		t.Errorf("Allow(10) at 85%% = %d, want reduced but at least 1", got)
	}
}

func TestAllow_NeverBelowOne(t *testing.T) {
	m := New(70)
	m.readMem = fakeMem(99.9)
	if got := m.Allow(10); got != 1 {
		t.Errorf("Allow(10) at 99.9%% = %d, want 1", got)
	}
}

func TestAllow_StatsUnavailable(t *testing.T) {
	m := New(70)
	m.readMem = func() (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("unsupported platform")
	}
	if got := m.Allow(8); got != 8 {
		t.Errorf("Allow(8) without stats = %d, want 8", got)
	}
}

func TestAllow_BadRequested(t *testing.T) {
	m := New(70)
	m.readMem = fakeMem(10)
	if got := m.Allow(0); got != 1 {
		t.Errorf("Allow(0) = %d, want 1", got)
	}
}

func TestSnapshot(t *testing.T) {
	m := New(70)
	m.readMem = fakeMem(50)
	u := m.Snapshot()
	if u.UsedPercent != 50 {
		t.Errorf("UsedPercent = %v, want 50", u.UsedPercent)
	}
	if u.TotalBytes != 16<<30 {
		t.Errorf("TotalBytes = %d", u.TotalBytes)
	}
}

func TestNew_InvalidThreshold(t *testing.T) {
	m := New(0)
	if m.threshold != DefaultThresholdPercent {
		t.Errorf("threshold = %v, want default", m.threshold)
	}
	m = New(150)
	if m.threshold != DefaultThresholdPercent {
		t.Errorf("threshold = %v, want default", m.threshold)
	}
}
