package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/procfs"
)

// CPUSampler reports the CPU percent of this process since its previous
// sample. The first sample is always 0, like psutil's cpu_percent().
// Values above 100 mean more than one core was busy.
type CPUSampler struct {
	cpuSeconds func() (float64, error)
	now        func() time.Time

	primed   bool
	lastCPU  float64
	lastWall time.Time
}

// NewCPUSampler reads CPU time from /proc/self/stat.
func NewCPUSampler() *CPUSampler {
	return newCPUSampler(procSelfCPUSeconds, time.Now)
}

func newCPUSampler(cpuSeconds func() (float64, error), now func() time.Time) *CPUSampler {
	return &CPUSampler{cpuSeconds: cpuSeconds, now: now}
}

// Sample returns the utilization percent since the previous call.
func (s *CPUSampler) Sample() (float64, error) {
	cpu, err := s.cpuSeconds()
	if err != nil {
		return 0, err
	}
	wall := s.now()

	if !s.primed {
		s.primed = true
		s.lastCPU, s.lastWall = cpu, wall
		return 0, nil
	}

	elapsed := wall.Sub(s.lastWall).Seconds()
	used := cpu - s.lastCPU
	s.lastCPU, s.lastWall = cpu, wall
	if elapsed <= 0 || used < 0 {
		return 0, nil
	}
	return used / elapsed * 100, nil
}

func procSelfCPUSeconds() (float64, error) {
	proc, err := procfs.Self()
	if err != nil {
		return 0, fmt.Errorf("open /proc/self: %w", err)
	}
	stat, err := proc.Stat()
	if err != nil {
		return 0, fmt.Errorf("read /proc/self/stat: %w", err)
	}
	return stat.CPUTime(), nil
}
