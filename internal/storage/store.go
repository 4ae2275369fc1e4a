package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/GriffinCanCode/perfcalc/internal/metrics"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

var ErrClosed = errors.New("store is closed")

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Record is a stored calculation result.
type Record struct {
	ID            int64  `json:"id"`
	CalculationID string `json:"calculation_id,omitempty"`
	metrics.PerformanceMetrics
	CreatedAt time.Time `json:"-"`
}

// Query selects a page of results, newest first.
type Query struct {
	Limit  int
	Offset int
	Mode   strategy.Mode
}

// ModeSummary aggregates the stored results of one processing mode.
type ModeSummary struct {
	Mode              strategy.Mode `json:"processing_mode"`
	Count             int           `json:"count"`
	MeanExecutionTime float64       `json:"mean_execution_time"`
	StdExecutionTime  float64       `json:"std_execution_time"`
	MeanCPUTime       float64       `json:"mean_cpu_time"`
	StdCPUTime        float64       `json:"std_cpu_time"`
	MeanCPUUtil       float64       `json:"mean_cpu_utilization"`
}

// Store is the SQLite result history.
type Store struct {
	db  atomic.Pointer[sql.DB]
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{now: time.Now}
	s.db.Store(db)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	db := s.db.Swap(nil)
	if db == nil {
		return ErrClosed
	}
	return db.Close()
}

// Save inserts m and returns the stored record.
func (s *Store) Save(ctx context.Context, calculationID string, m metrics.PerformanceMetrics) (Record, error) {
	db := s.db.Load()
	if db == nil {
		return Record{}, ErrClosed
	}

	created := s.now().UTC()
	res, err := db.ExecContext(ctx, `
		INSERT INTO performance_results (
			calculation_id, timestamp, lower_bound, upper_bound, processing_mode,
			execution_time, cpu_time, memory_usage, cpu_utilization,
			result_value, cores_used, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calculationID, m.Timestamp, m.LowerBound, m.UpperBound, string(m.ProcessingMode),
		m.ExecutionTime, m.CPUTime, m.MemoryUsage, m.CPUUtilization,
		m.ResultValue, m.CoresUsed, created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save result: %w", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("save result: %w", err)
	}

	return Record{
		ID:                 rowID,
		CalculationID:      calculationID,
		PerformanceMetrics: m,
		CreatedAt:          created,
	}, nil
}

// List returns a page of results matching q and the total number of
// matching rows.
func (s *Store) List(ctx context.Context, q Query) ([]Record, int, error) {
	db := s.db.Load()
	if db == nil {
		return nil, 0, ErrClosed
	}
	q = q.Normalize()

	where, args := "", []any{}
	if q.Mode != "" {
		where = " WHERE processing_mode = ?"
		args = append(args, string(q.Mode))
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM performance_results"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, calculation_id, timestamp, lower_bound, upper_bound, processing_mode,
			execution_time, cpu_time, memory_usage, cpu_utilization,
			result_value, cores_used, created_at
		FROM performance_results`+where+`
		ORDER BY id DESC LIMIT ? OFFSET ?`,
		append(args, q.Limit, q.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, q.Limit)
	for rows.Next() {
		var (
			r       Record
			mode    string
			created string
		)
		if err := rows.Scan(
			&r.ID, &r.CalculationID, &r.Timestamp, &r.LowerBound, &r.UpperBound, &mode,
			&r.ExecutionTime, &r.CPUTime, &r.MemoryUsage, &r.CPUUtilization,
			&r.ResultValue, &r.CoresUsed, &created,
		); err != nil {
			return nil, 0, fmt.Errorf("scan result: %w", err)
		}
		r.ProcessingMode = strategy.Mode(mode)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	return records, total, nil
}

// Summary computes per-mode statistics over every stored result. Modes
// without results are omitted.
func (s *Store) Summary(ctx context.Context) ([]ModeSummary, error) {
	db := s.db.Load()
	if db == nil {
		return nil, ErrClosed
	}

	rows, err := db.QueryContext(ctx, `
		SELECT processing_mode, execution_time, cpu_time, cpu_utilization
		FROM performance_results ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("summarize results: %w", err)
	}
	defer rows.Close()

	type series struct{ exec, cpu, util []float64 }
	byMode := make(map[strategy.Mode]*series)
	for rows.Next() {
		var (
			mode            string
			exec, cpu, util float64
		)
		if err := rows.Scan(&mode, &exec, &cpu, &util); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		sr, ok := byMode[strategy.Mode(mode)]
		if !ok {
			sr = &series{}
			byMode[strategy.Mode(mode)] = sr
		}
		sr.exec = append(sr.exec, exec)
		sr.cpu = append(sr.cpu, cpu)
		sr.util = append(sr.util, util)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summarize results: %w", err)
	}

	summaries := make([]ModeSummary, 0, len(byMode))
	for _, mode := range strategy.Modes() {
		sr, ok := byMode[mode]
		if !ok {
			continue
		}
		execMean, execStd := meanStdDev(sr.exec)
		cpuMean, cpuStd := meanStdDev(sr.cpu)
		summaries = append(summaries, ModeSummary{
			Mode:              mode,
			Count:             len(sr.exec),
			MeanExecutionTime: execMean,
			StdExecutionTime:  execStd,
			MeanCPUTime:       cpuMean,
			StdCPUTime:        cpuStd,
			MeanCPUUtil:       stat.Mean(sr.util, nil),
		})
	}
	return summaries, nil
}

// meanStdDev returns the mean and sample standard deviation; the deviation
// of a single observation is reported as 0.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

// Normalize applies the default and maximum page size.
func (q Query) Normalize() Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
