package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/domain/calculation"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/logging"
	"github.com/GriffinCanCode/perfcalc/internal/metrics"
	"github.com/GriffinCanCode/perfcalc/internal/storage"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

const modeAll = "all"

type options struct {
	lower   int64
	upper   int64
	mode    string
	workers int
	maxSpan int64
	dbPath  string
	pretty  bool
	verbose bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "perfcalc",
		Short: "Measure the sum of 1/k² under different execution models",
		Long: `perfcalc sums 1/k² over [lower, upper] sequentially, on a goroutine pool
or across child processes, and reports execution time, CPU time, memory
and CPU utilization as JSON.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), out, opts)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.lower, "lower", 1, "Lower bound (>= 1)")
	f.Int64Var(&opts.upper, "upper", 0, "Upper bound (> lower)")
	f.StringVar(&opts.mode, "mode", string(strategy.ModeSequential), "Processing mode: sequential, threading, multiprocessing or all")
	f.IntVar(&opts.workers, "workers", strategy.MaxWorkers, "Maximum parallel workers")
	f.Int64Var(&opts.maxSpan, "max-span", calculation.DefaultMaxSpan, "Largest allowed upper-lower (0 = unlimited)")
	f.StringVar(&opts.dbPath, "db", "", "Also store results in this SQLite database")
	f.BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	_ = cmd.MarkFlagRequired("upper")

	return cmd
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	modes, err := selectModes(opts.mode)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if opts.verbose {
		cfg := logging.DevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err := logging.New(cfg)
		if err != nil {
			return err
		}
		logger = l.Logger
	}
	defer func() { _ = logger.Sync() }()

	svc := calculation.NewService(calculation.Options{
		MaxWorkers:      opts.workers,
		MaxSpan:         opts.maxSpan,
		BreakerFailures: 1,
		BreakerTimeout:  time.Minute,
	}, logger)

	if opts.dbPath != "" {
		store, err := storage.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		svc.WithStore(store)
	}

	records := make([]metrics.PerformanceMetrics, 0, len(modes))
	for _, mode := range modes {
		outcome, err := svc.Calculate(ctx, calculation.Request{
			LowerBound:     opts.lower,
			UpperBound:     opts.upper,
			ProcessingMode: string(mode),
		})
		if err != nil {
			var verr *calculation.ValidationError
			if errors.As(err, &verr) {
				return errors.New(verr.Message)
			}
			return fmt.Errorf("%s calculation failed: %w", mode, err)
		}
		records = append(records, outcome.Metrics)
	}

	var payload any = records
	if len(records) == 1 {
		payload = records[0]
	}
	return writeJSON(out, payload, opts.pretty)
}

func selectModes(raw string) ([]strategy.Mode, error) {
	if raw == modeAll {
		return strategy.Modes(), nil
	}
	mode, err := strategy.ParseMode(raw)
	if err != nil {
		return nil, err
	}
	return []strategy.Mode{mode}, nil
}

func writeJSON(out io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	} else {
		data, err = sonic.ConfigStd.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}
