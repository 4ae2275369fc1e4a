package strategy

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

// Observer is notified about the lifetime of every worker process.
type Observer interface {
	Spawned(index, pid int)
	Joined(index, pid int, state *os.ProcessState)
}

// Process distributes chunks over isolated child processes. Each child owns
// a private stdout pipe which acts as its result slot; the parent reads the
// slots only after every child has exited.
type Process struct {
	pool       PoolConfig
	executable string
	env        []string
	observer   Observer
	logger     *zap.Logger

	start func(*exec.Cmd) error
}

// NewProcess creates a process pool strategy that re-executes the running
// binary as its workers.
func NewProcess(pool PoolConfig, logger *zap.Logger) *Process {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Process{
		pool:   pool,
		logger: logger,
		start:  (*exec.Cmd).Start,
	}
}

// WithExecutable overrides the worker binary.
func (p *Process) WithExecutable(path string) *Process {
	p.executable = path
	return p
}

// WithEnv adds environment entries to every worker.
func (p *Process) WithEnv(env ...string) *Process {
	p.env = append(p.env, env...)
	return p
}

// WithObserver registers lifetime hooks.
func (p *Process) WithObserver(o Observer) *Process {
	p.observer = o
	return p
}

func (p *Process) Mode() Mode { return ModeMultiprocessing }

type worker struct {
	chunk  compute.Chunk
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	err    error
}

// Execute partitions r, runs one child process per chunk, joins all of them
// and sums their partials in chunk order.
func (p *Process) Execute(r compute.Range) (Result, error) {
	if err := r.ValidateWorkload(); err != nil {
		return Result{}, err
	}

	workers := p.pool.workers()
	chunks, err := compute.Partition(r, workers)
	if err != nil {
		return Result{}, err
	}

	executable, err := p.resolveExecutable()
	if err != nil {
		return Result{}, &compute.WorkerSpawnError{Worker: 0, Err: err}
	}

	running := make([]*worker, 0, len(chunks))
	for _, c := range chunks {
		w, err := p.spawn(executable, c)
		if err != nil {
			p.logger.Error("Failed to spawn worker process",
				zap.Int("chunk", c.Index),
				zap.Error(err),
			)
			p.abort(running)
			return Result{}, &compute.WorkerSpawnError{Worker: c.Index, Err: err}
		}
		running = append(running, w)
	}

	// Join barrier: wait for every child before looking at any result.
	for _, w := range running {
		p.join(w)
	}

	partials := make([]float64, len(chunks))
	var errs []error
	for _, w := range running {
		if w.err != nil {
			errs = append(errs, &compute.WorkerExecutionError{Chunk: w.chunk, Err: w.failure()})
			continue
		}
		v, err := decodeFrame(w.stdout.Bytes(), w.chunk)
		if err != nil {
			errs = append(errs, &compute.WorkerExecutionError{Chunk: w.chunk, Err: err})
			continue
		}
		partials[w.chunk.Index] = v
	}
	if len(errs) > 0 {
		return Result{}, errors.Join(errs...)
	}

	return Result{
		Value:     sumInOrder(partials),
		CoresUsed: workers,
		Chunks:    len(chunks),
	}, nil
}

func (p *Process) resolveExecutable() (string, error) {
	if p.executable != "" {
		return p.executable, nil
	}
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate worker executable: %w", err)
	}
	return path, nil
}

func (p *Process) spawn(executable string, c compute.Chunk) (*worker, error) {
	w := &worker{chunk: c}

	cmd := exec.Command(executable)
	cmd.Env = append(append(os.Environ(), p.env...), workerEnv(c)...)
	cmd.Stdout = &w.stdout
	cmd.Stderr = &w.stderr
	if err := p.start(cmd); err != nil {
		return nil, err
	}
	w.cmd = cmd

	p.logger.Debug("Spawned worker process",
		zap.Int("chunk", c.Index),
		zap.Int("pid", cmd.Process.Pid),
		zap.Int64("start", c.Start),
		zap.Int64("end", c.End),
	)
	if p.observer != nil {
		p.observer.Spawned(c.Index, cmd.Process.Pid)
	}
	return w, nil
}

func (p *Process) join(w *worker) {
	w.err = w.cmd.Wait()

	pid := w.cmd.Process.Pid
	p.logger.Debug("Joined worker process",
		zap.Int("chunk", w.chunk.Index),
		zap.Int("pid", pid),
		zap.Int("exit_code", w.cmd.ProcessState.ExitCode()),
	)
	if p.observer != nil {
		p.observer.Joined(w.chunk.Index, pid, w.cmd.ProcessState)
	}
}

// abort kills and reaps children started before a spawn failure.
func (p *Process) abort(running []*worker) {
	for _, w := range running {
		if err := w.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			p.logger.Warn("Failed to kill worker process",
				zap.Int("chunk", w.chunk.Index),
				zap.Error(err),
			)
		}
	}
	for _, w := range running {
		p.join(w)
	}
}

func (w *worker) failure() error {
	if msg := strings.TrimSpace(w.stderr.String()); msg != "" {
		return fmt.Errorf("%w: %s", w.err, msg)
	}
	return w.err
}
