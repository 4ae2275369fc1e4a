package strategy

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

func envFrom(entries []string) func(string) string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, _ := strings.Cut(e, "=")
		m[k] = v
	}
	return func(key string) string { return m[key] }
}

func TestRunWorker(t *testing.T) {
	c := compute.Chunk{Index: 3, Start: 1, End: 10}
	var stdout, stderr bytes.Buffer

	code := runWorker(envFrom(workerEnv(c)), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	v, err := decodeFrame(stdout.Bytes(), c)
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(compute.Reduce(c)), math.Float64bits(v))
}

func TestRunWorkerReportsChunkError(t *testing.T) {
	c := compute.Chunk{Index: 0, Start: 0, End: 10}
	var stdout, stderr bytes.Buffer

	code := runWorker(envFrom(workerEnv(c)), &stdout, &stderr)
	require.Equal(t, 0, code)

	_, err := decodeFrame(stdout.Bytes(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k < 1")
}

func TestRunWorkerBadEnvironment(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runWorker(envFrom([]string{EnvWorker + "=1", EnvWorkerIndex + "=x"}), &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), EnvWorkerIndex)
}

func TestDecodeFrameRejectsForeignChunk(t *testing.T) {
	c := compute.Chunk{Index: 1, Start: 11, End: 20}
	data, err := encodeFrame(newFrame(c, compute.Reduce(c), nil))
	require.NoError(t, err)

	_, err = decodeFrame(data, compute.Chunk{Index: 2, Start: 21, End: 30})
	assert.Error(t, err)

	_, err = decodeFrame([]byte("not json"), c)
	assert.Error(t, err)

	_, err = decodeFrame(nil, c)
	assert.Error(t, err)
}
