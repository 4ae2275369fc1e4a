package metrics

import (
	rtmetrics "runtime/metrics"
	"sync"
	"time"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// DefaultTraceInterval is how often the memory tracer samples the heap.
const DefaultTraceInterval = time.Millisecond

// MemoryTracer records the peak live heap reached while it runs, relative
// to the heap at Start.
type MemoryTracer struct {
	interval time.Duration
	read     func() uint64

	mu       sync.Mutex
	baseline uint64
	peak     uint64
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryTracer creates a tracer reading runtime heap metrics.
func NewMemoryTracer(interval time.Duration) *MemoryTracer {
	if interval <= 0 {
		interval = DefaultTraceInterval
	}
	return &MemoryTracer{interval: interval, read: readHeapObjects}
}

// Start records the baseline and begins sampling.
func (t *MemoryTracer) Start() {
	t.mu.Lock()
	t.baseline = t.read()
	t.peak = t.baseline
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.mu.Unlock()

	go t.loop(t.stop, t.done)
}

// Stop ends sampling and returns the peak bytes above the baseline.
func (t *MemoryTracer) Stop() uint64 {
	close(t.stop)
	<-t.done

	t.observe()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.peak < t.baseline {
		return 0
	}
	return t.peak - t.baseline
}

func (t *MemoryTracer) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.observe()
		}
	}
}

func (t *MemoryTracer) observe() {
	v := t.read()
	t.mu.Lock()
	if v > t.peak {
		t.peak = v
	}
	t.mu.Unlock()
}

func readHeapObjects() uint64 {
	sample := []rtmetrics.Sample{{Name: heapObjectsMetric}}
	rtmetrics.Read(sample)
	if sample[0].Value.Kind() != rtmetrics.KindUint64 {
		return 0
	}
	return sample[0].Value.Uint64()
}
