package compute

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange    = errors.New("invalid range")
	ErrWorkerSpawn     = errors.New("worker spawn failed")
	ErrWorkerExecution = errors.New("worker execution failed")
	ErrUnknownMode     = errors.New("unknown processing mode")
)

// InvalidRangeError reports a range that violates lower >= 1 and upper > lower.
type InvalidRangeError struct {
	Lower  int64
	Upper  int64
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d]: %s", e.Lower, e.Upper, e.Reason)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// WorkerSpawnError reports a worker (goroutine pool or child process) that
// could not be started. The whole calculation is aborted.
type WorkerSpawnError struct {
	Worker int
	Err    error
}

func (e *WorkerSpawnError) Error() string {
	return fmt.Sprintf("spawn worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerSpawnError) Unwrap() []error { return []error{ErrWorkerSpawn, e.Err} }

// WorkerExecutionError reports a chunk whose computation failed.
type WorkerExecutionError struct {
	Chunk Chunk
	Err   error
}

func (e *WorkerExecutionError) Error() string {
	return fmt.Sprintf("chunk %d [%d, %d]: %v", e.Chunk.Index, e.Chunk.Start, e.Chunk.End, e.Err)
}

func (e *WorkerExecutionError) Unwrap() []error { return []error{ErrWorkerExecution, e.Err} }
