package sysinfo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func fakeSource() *Source {
	return &Source{
		cpuCount: func() int { return 4 },
		cpuInfo: func() ([]procfs.CPUInfo, error) {
			return []procfs.CPUInfo{{CPUMHz: 2000}, {CPUMHz: 3000}, {CPUMHz: 0}, {CPUMHz: 2500}}, nil
		},
		memInfo: func() (procfs.Meminfo, error) {
			return procfs.Meminfo{MemTotal: u64(16 << 20), MemAvailable: u64(4 << 20)}, nil
		},
		platform: func() string { return "Linux-6.1.0-x86_64" },
	}
}

func TestCollect(t *testing.T) {
	info := fakeSource().Collect()

	assert.Equal(t, 4, info.CPUCount)
	require.NotNil(t, info.CPUFreq)
	assert.Equal(t, CPUFreq{Current: 2500, Min: 2000, Max: 3000}, *info.CPUFreq)
	assert.Equal(t, Memory{Total: 16, Available: 4}, info.Memory)
	assert.Equal(t, "Linux-6.1.0-x86_64", info.Platform.Platform)
}

func TestCollectMissingFacts(t *testing.T) {
	s := fakeSource()
	s.cpuInfo = func() ([]procfs.CPUInfo, error) { return nil, errors.New("no cpuinfo") }
	s.memInfo = func() (procfs.Meminfo, error) {
		return procfs.Meminfo{MemTotal: u64(2 << 20), MemFree: u64(1 << 20)}, nil
	}

	info := s.Collect()
	assert.Nil(t, info.CPUFreq)
	assert.Equal(t, Memory{Total: 2, Available: 1}, info.Memory)

	body, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"cpu_freq":null`)
}

func TestFrequencyWithoutReadings(t *testing.T) {
	assert.Nil(t, frequency([]procfs.CPUInfo{{}, {}}))
}

func TestNewSourceHost(t *testing.T) {
	info := NewSource().Collect()
	assert.Positive(t, info.CPUCount)
	assert.NotEmpty(t, info.Platform.Platform)
}
