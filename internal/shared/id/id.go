// Package id provides ULID-based identifiers for calculations and
// request traces.
//
// IDs carry a type prefix for readable logs (calc_*, trace_*) and sort
// lexicographically by creation time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// CalculationID identifies one calculation.
type CalculationID string

// TraceID identifies one HTTP request and everything it triggers.
type TraceID string

const (
	CalculationPrefix = "calc"
	TracePrefix       = "trace"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator, using monotonic entropy so IDs
// created within one millisecond still sort in creation order.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(ulid.Monotonic(rand.Reader, 0))
	})
	return defaultGenerator
}

// NewGenerator creates a generator reading entropy from r.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{entropy: r, now: time.Now}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewCalculationID generates a new calculation ID
func NewCalculationID() CalculationID {
	return CalculationID(Default().GenerateWithPrefix(CalculationPrefix))
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

func (id CalculationID) String() string { return string(id) }
func (id TraceID) String() string       { return string(id) }

// Parse splits a prefixed ID and parses its ULID part.
func Parse(s string) (prefix string, u ulid.ULID, err error) {
	prefix, raw, ok := strings.Cut(s, "_")
	if !ok {
		return "", ulid.ULID{}, fmt.Errorf("id %q has no prefix", s)
	}
	u, err = ulid.Parse(raw)
	if err != nil {
		return "", ulid.ULID{}, fmt.Errorf("id %q: %w", s, err)
	}
	return prefix, u, nil
}

// IsValidTraceID reports whether s is a well-formed trace ID.
func IsValidTraceID(s string) bool {
	prefix, _, err := Parse(s)
	return err == nil && prefix == TracePrefix
}

// Timestamp extracts the creation time from a prefixed ID.
func Timestamp(s string) (time.Time, error) {
	_, u, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
