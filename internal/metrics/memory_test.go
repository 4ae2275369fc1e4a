package metrics

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryTracerPeak(t *testing.T) {
	var heap atomic.Uint64
	heap.Store(1000)

	tr := NewMemoryTracer(time.Millisecond)
	tr.read = heap.Load

	tr.Start()
	heap.Store(5000)
	time.Sleep(20 * time.Millisecond)
	heap.Store(1500)
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, uint64(4000), tr.Stop())
}

func TestMemoryTracerNeverNegative(t *testing.T) {
	var heap atomic.Uint64
	heap.Store(10_000)

	tr := NewMemoryTracer(time.Millisecond)
	tr.read = heap.Load

	tr.Start()
	heap.Store(10)
	assert.Equal(t, uint64(0), tr.Stop())
}

func TestMemoryTracerRuntimeHeap(t *testing.T) {
	tr := NewMemoryTracer(0)
	tr.Start()

	buf := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		buf = append(buf, make([]byte, 64<<10))
	}
	time.Sleep(5 * time.Millisecond)

	peak := tr.Stop()
	assert.Len(t, buf, 64)
	assert.Greater(t, peak, uint64(0))
}
