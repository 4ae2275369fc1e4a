package strategy

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

// Environment variables that turn the binary into a process worker.
const (
	EnvWorker      = "PERFCALC_WORKER"
	EnvWorkerIndex = "PERFCALC_WORKER_INDEX"
	EnvWorkerStart = "PERFCALC_WORKER_START"
	EnvWorkerEnd   = "PERFCALC_WORKER_END"
)

// ServeWorkerIfRequested runs the worker and exits when the process was
// started by the Process strategy. Otherwise it returns immediately.
func ServeWorkerIfRequested() {
	if os.Getenv(EnvWorker) != "1" {
		return
	}
	os.Exit(runWorker(os.Getenv, os.Stdout, os.Stderr))
}

// workerEnv returns the environment entries describing chunk c.
func workerEnv(c compute.Chunk) []string {
	return []string{
		EnvWorker + "=1",
		EnvWorkerIndex + "=" + strconv.Itoa(c.Index),
		EnvWorkerStart + "=" + strconv.FormatInt(c.Start, 10),
		EnvWorkerEnd + "=" + strconv.FormatInt(c.End, 10),
	}
}

// runWorker computes one chunk and writes its frame to stdout. The exit code
// is 0 when a frame was written, even if it carries an error, so the parent
// can report the chunk failure itself.
func runWorker(getenv func(string) string, stdout, stderr io.Writer) int {
	c, err := chunkFromEnv(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "perfcalc worker: %v\n", err)
		return 2
	}

	partial, err := compute.ReduceChecked(c)
	data, encErr := encodeFrame(newFrame(c, partial, err))
	if encErr != nil {
		fmt.Fprintf(stderr, "perfcalc worker: %v\n", encErr)
		return 1
	}
	if _, err := stdout.Write(data); err != nil {
		fmt.Fprintf(stderr, "perfcalc worker: write result: %v\n", err)
		return 1
	}
	return 0
}

func chunkFromEnv(getenv func(string) string) (compute.Chunk, error) {
	index, err := strconv.Atoi(getenv(EnvWorkerIndex))
	if err != nil {
		return compute.Chunk{}, fmt.Errorf("parse %s: %w", EnvWorkerIndex, err)
	}
	start, err := strconv.ParseInt(getenv(EnvWorkerStart), 10, 64)
	if err != nil {
		return compute.Chunk{}, fmt.Errorf("parse %s: %w", EnvWorkerStart, err)
	}
	end, err := strconv.ParseInt(getenv(EnvWorkerEnd), 10, 64)
	if err != nil {
		return compute.Chunk{}, fmt.Errorf("parse %s: %w", EnvWorkerEnd, err)
	}
	return compute.Chunk{Index: index, Start: start, End: end}, nil
}
