// Package cli implements the command surface: loading configuration,
// preparing scenario inputs, driving the simulator and writing result
// tables. The cobra layer under cmd/nbstp stays thin; everything testable
// lives here.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	nbstp "github.com/q-beau/NBS-TP"
	"github.com/q-beau/NBS-TP/internal/config"
	"github.com/q-beau/NBS-TP/internal/logging"
	"github.com/q-beau/NBS-TP/internal/metrics"
	"github.com/q-beau/NBS-TP/internal/tabular"
	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/ports"
	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// RunOptions carries the run command's flags. Zero numeric values mean "not
// set on the command line"; SeedSet distinguishes an explicit seed because
// zero is a legitimate one.
type RunOptions struct {
	ConfigPath string
	InputPath  string
	DataDir    string
	ResultsDir string

	Trials       int
	Workers      int
	Seed         uint64
	SeedSet      bool
	Perturbation float64

	StoreDriver string
	MetricsAddr string
	Debug       bool

	Stdout io.Writer
}

func (o RunOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func (o RunOptions) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

// ExecuteRun simulates either one prepared input table (--input) or the
// configured scenario grid from a data directory. Every run writes its
// summary CSV into the results directory; grid runs additionally persist
// the prepared input table next to it, so any single scenario can be
// re-run or inspected on its own.
func ExecuteRun(ctx context.Context, opts RunOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.DataDir != "" {
		cfg.Paths.Data = opts.DataDir
	}
	if opts.ResultsDir != "" {
		cfg.Paths.Results = opts.ResultsDir
	}
	if opts.StoreDriver != "" {
		cfg.Store.Driver = opts.StoreDriver
	}

	logger := opts.logger()
	out := opts.stdout()

	recorder := metrics.NewRecorder()
	hooks := trialFailureHooks(logger).Merge(recorder.Hooks())
	if opts.MetricsAddr != "" {
		stop := serveMetrics(opts.MetricsAddr, recorder, logger)
		defer stop()
	}

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer func() {
			if cerr := closeStore(); cerr != nil {
				logger.Warn("closing archive", "err", cerr)
			}
		}()
	}

	if err := os.MkdirAll(cfg.Paths.Results, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	baseline := nbstp.Baseline{
		Parameters: cfg.Parameters(),
		InitialSOC: cfg.Site.SOC,
		Depth:      cfg.Site.Depth,
		EvapFactor: cfg.Site.EvapFactor,
	}

	if opts.InputPath != "" {
		return runSingle(ctx, cfg, baseline, opts, logger, hooks, store, out)
	}
	return runGrid(ctx, cfg, baseline, opts, logger, hooks, store, out)
}

// runSingle simulates one already-prepared input table.
func runSingle(ctx context.Context, cfg config.Config, baseline nbstp.Baseline, opts RunOptions,
	logger *slog.Logger, hooks domain.LifecycleHooks, store ports.RunStore, out io.Writer) error {

	f, err := os.Open(opts.InputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	in, err := tabular.ReadRunInput(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.InputPath, err)
	}
	if in.Scenario == "" {
		base := filepath.Base(opts.InputPath)
		in.Scenario = strings.TrimSuffix(base, filepath.Ext(base))
	}

	summary, err := simulate(ctx, cfg, baseline, in, opts, logger, hooks)
	if err != nil {
		return err
	}
	return finishRun(ctx, cfg, summary, store, out)
}

// runGrid prepares and simulates every scenario in the configured grid.
func runGrid(ctx context.Context, cfg config.Config, baseline nbstp.Baseline, opts RunOptions,
	logger *slog.Logger, hooks domain.LifecycleHooks, store ports.RunStore, out io.Writer) error {

	manureCrop, err := cfg.ManureCrop()
	if err != nil {
		return err
	}
	src := tabular.NewDir(cfg.Paths.Data)

	specs := cfg.Grid()
	if len(specs) == 0 {
		return fmt.Errorf("%w: scenario grid is empty", domain.ErrInvalidInput)
	}
	logger.Info("starting scenario grid", "scenarios", len(specs), "data", cfg.Paths.Data)

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		label := spec.Label()

		amount, err := cfg.ManureFor(label)
		if err != nil {
			return err
		}
		builder := scenario.NewBuilder(src,
			scenario.WithLatitude(cfg.Site.Latitude),
			scenario.WithManure(amount, manureCrop),
		)
		in, err := builder.Build(spec)
		if err != nil {
			return fmt.Errorf("preparing %s: %w", label, err)
		}
		if err := writeRunInput(cfg.Paths.Results, label, in, src, spec.Rotation); err != nil {
			return err
		}

		summary, err := simulate(ctx, cfg, baseline, in, opts, logger, hooks)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", label, err)
		}
		if err := finishRun(ctx, cfg, summary, store, out); err != nil {
			return err
		}
	}
	return nil
}

// simulate resolves the effective ensemble settings for one scenario
// (config, per-scenario override, then command-line flags) and runs it.
func simulate(ctx context.Context, cfg config.Config, baseline nbstp.Baseline, in domain.RunInput,
	opts RunOptions, logger *slog.Logger, hooks domain.LifecycleHooks) (*domain.RunSummary, error) {

	e, err := cfg.EnsembleFor(in.Scenario)
	if err != nil {
		return nil, err
	}
	if opts.Trials > 0 {
		e.Trials = opts.Trials
	}
	if opts.Workers > 0 {
		e.Workers = opts.Workers
	}
	if opts.SeedSet {
		e.Seed = opts.Seed
	}
	if opts.Perturbation > 0 {
		e.Perturbation = opts.Perturbation
	}

	simOpts := []nbstp.Option{
		nbstp.WithTrials(e.Trials),
		nbstp.WithSeed(e.Seed),
		nbstp.WithLogger(logger),
		nbstp.WithLifecycleHooks(hooks),
	}
	if e.Workers > 0 {
		simOpts = append(simOpts, nbstp.WithWorkers(e.Workers))
	}
	if e.Perturbation > 0 {
		simOpts = append(simOpts, nbstp.WithPerturbation(e.Perturbation))
	}

	sim, err := nbstp.New(baseline, simOpts...)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx, in)
}

// finishRun writes the summary CSV, archives the run if a store is
// configured and prints the one-line result.
func finishRun(ctx context.Context, cfg config.Config, summary *domain.RunSummary,
	store ports.RunStore, out io.Writer) error {

	path := filepath.Join(cfg.Paths.Results, tabular.SummaryFileName(summary.Scenario))
	if err := writeSummaryFile(path, summary.Rows); err != nil {
		return err
	}
	if store != nil {
		if err := store.Save(ctx, summary); err != nil {
			return fmt.Errorf("archiving %s: %w", summary.ID, err)
		}
	}

	first := summary.Rows[0]
	last := summary.Rows[len(summary.Rows)-1]
	fmt.Fprintf(out, "%s: %d trials, SOC %.2f -> %.2f t C/ha (loss %.2f +/- %.2f)\n",
		summary.Scenario, summary.Trials,
		first.MeanSOC, last.MeanSOC, last.MeanDelta, last.StdDelta)
	return nil
}

func writeSummaryFile(path string, rows domain.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := tabular.WriteSummary(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// writeRunInput persists the prepared table the way the reference pipeline
// does, crop codes included.
func writeRunInput(dir, label string, in domain.RunInput, src scenario.Source, rotation string) error {
	cal, err := src.CropCalendar(rotation)
	if err != nil {
		return err
	}
	crops, err := cal.Expand()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, tabular.RunInputFileName(label))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := tabular.WriteRunInput(f, in, crops); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// trialFailureHooks surfaces individual trial failures; run-level logging
// already happens inside the ensemble.
func trialFailureHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrialDone: func(_ context.Context, ev *domain.TrialEvent) {
			if ev.Err != nil {
				logger.Warn("trial failed", "run_id", ev.RunID, "trial", ev.Trial, "err", ev.Err)
			}
		},
	}
}

// serveMetrics exposes the recorder on addr until the returned stop func
// runs.
func serveMetrics(addr string, recorder *metrics.Recorder, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()

	return func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Warn("metrics shutdown", "err", err)
		}
	}
}
