package strategy

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

// frame is the single message a worker process writes to its stdout.
// Bits carries the IEEE-754 encoding of Partial so the value survives the
// trip exactly; Partial is kept for humans reading the stream.
type frame struct {
	Index   int     `json:"index"`
	Start   int64   `json:"start"`
	End     int64   `json:"end"`
	Partial float64 `json:"partial"`
	Bits    uint64  `json:"bits"`
	Error   string  `json:"error,omitempty"`
}

func newFrame(c compute.Chunk, partial float64, err error) frame {
	f := frame{
		Index:   c.Index,
		Start:   c.Start,
		End:     c.End,
		Partial: partial,
		Bits:    math.Float64bits(partial),
	}
	if err != nil {
		f.Error = err.Error()
	}
	return f
}

func encodeFrame(f frame) ([]byte, error) {
	data, err := sonic.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode worker frame: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeFrame parses a worker's output and checks it belongs to c.
func decodeFrame(data []byte, c compute.Chunk) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0, errors.New("worker produced no result")
	}

	var f frame
	if err := sonic.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("decode worker frame: %w", err)
	}
	if f.Error != "" {
		return 0, errors.New(f.Error)
	}
	if f.Index != c.Index || f.Start != c.Start || f.End != c.End {
		return 0, fmt.Errorf("worker answered for chunk %d [%d, %d]", f.Index, f.Start, f.End)
	}
	return math.Float64frombits(f.Bits), nil
}
