package sampler

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUMeter measures aggregate CPU time across all cores using gopsutil.
type CPUMeter struct {
	times func(percpu bool) ([]cpu.TimesStat, error)
}

// NewCPUMeter creates a meter backed by the platform CPU counters.
func NewCPUMeter() *CPUMeter {
	return &CPUMeter{times: cpu.Times}
}

// Start snapshots the aggregate CPU counters.
func (m *CPUMeter) Start() (Measurement, error) {
	start, err := m.snapshot()
	if err != nil {
		return nil, err
	}
	return &cpuMeasurement{meter: m, start: start}, nil
}

func (m *CPUMeter) snapshot() (cpu.TimesStat, error) {
	stats, err := m.times(false)
	if err != nil {
		return cpu.TimesStat{}, fmt.Errorf("failed to read CPU times: %w", err)
	}
	if len(stats) == 0 {
		return cpu.TimesStat{}, errors.New("no aggregate CPU times reported")
	}
	return stats[0], nil
}

type cpuMeasurement struct {
	meter *CPUMeter
	start cpu.TimesStat
}

// Finish returns the idle fraction between Start and now.
func (c *cpuMeasurement) Finish() (float64, error) {
	end, err := c.meter.snapshot()
	if err != nil {
		return 0, err
	}
	return IdleFraction(c.start, end), nil
}

// IdleFraction computes the idle share of CPU time between two snapshots.
// With no elapsed CPU time the system is reported fully idle.
func IdleFraction(start, end cpu.TimesStat) float64 {
	total := busy(end) + idle(end) - busy(start) - idle(start)
	if total <= 0 {
		return 1
	}
	frac := (idle(end) - idle(start)) / total
	return max(0, min(1, frac))
}

func idle(t cpu.TimesStat) float64 {
	return t.Idle + t.Iowait
}

// busy excludes guest time, which the kernel already counts in user time.
func busy(t cpu.TimesStat) float64 {
	return t.User + t.Nice + t.System + t.Irq + t.Softirq + t.Steal
}
