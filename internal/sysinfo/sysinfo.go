package sysinfo

import (
	"runtime"

	"github.com/prometheus/procfs"
)

const kibPerGiB = 1 << 20

// Info is the system-info response body.
type Info struct {
	CPUCount int          `json:"cpu_count"`
	CPUFreq  *CPUFreq     `json:"cpu_freq"`
	Memory   Memory       `json:"memory"`
	Platform PlatformInfo `json:"platform"`
}

// CPUFreq is in MHz.
type CPUFreq struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Memory is in GiB.
type Memory struct {
	Total     float64 `json:"total"`
	Available float64 `json:"available"`
}

type PlatformInfo struct {
	Platform string `json:"platform"`
}

// Source reads host information. Missing facts are left at their zero value
// instead of failing the whole report.
type Source struct {
	cpuCount func() int
	cpuInfo  func() ([]procfs.CPUInfo, error)
	memInfo  func() (procfs.Meminfo, error)
	platform func() string
}

// NewSource returns a Source backed by /proc.
func NewSource() *Source {
	return &Source{
		cpuCount: runtime.NumCPU,
		cpuInfo: func() ([]procfs.CPUInfo, error) {
			fs, err := procfs.NewDefaultFS()
			if err != nil {
				return nil, err
			}
			return fs.CPUInfo()
		},
		memInfo: func() (procfs.Meminfo, error) {
			fs, err := procfs.NewDefaultFS()
			if err != nil {
				return procfs.Meminfo{}, err
			}
			return fs.Meminfo()
		},
		platform: platformString,
	}
}

// Collect gathers the current Info.
func (s *Source) Collect() Info {
	info := Info{
		CPUCount: s.cpuCount(),
		Platform: PlatformInfo{Platform: s.platform()},
	}

	if cpus, err := s.cpuInfo(); err == nil {
		info.CPUFreq = frequency(cpus)
	}
	if mem, err := s.memInfo(); err == nil {
		info.Memory = memory(mem)
	}
	return info
}

func frequency(cpus []procfs.CPUInfo) *CPUFreq {
	var (
		sum   float64
		count int
		freq  CPUFreq
	)
	for _, cpu := range cpus {
		if cpu.CPUMHz <= 0 {
			continue
		}
		if count == 0 || cpu.CPUMHz < freq.Min {
			freq.Min = cpu.CPUMHz
		}
		if cpu.CPUMHz > freq.Max {
			freq.Max = cpu.CPUMHz
		}
		sum += cpu.CPUMHz
		count++
	}
	if count == 0 {
		return nil
	}
	freq.Current = sum / float64(count)
	return &freq
}

func memory(mem procfs.Meminfo) Memory {
	var m Memory
	if mem.MemTotal != nil {
		m.Total = float64(*mem.MemTotal) / kibPerGiB
	}
	if mem.MemAvailable != nil {
		m.Available = float64(*mem.MemAvailable) / kibPerGiB
	} else if mem.MemFree != nil {
		m.Available = float64(*mem.MemFree) / kibPerGiB
	}
	return m
}
