package montecarlo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/rothc"
)

// DefaultTrials is the ensemble size used when the config leaves it zero.
const DefaultTrials = 1000

// DefaultWorkers leaves one CPU for the caller and never goes below one.
func DefaultWorkers() int {
	if w := runtime.NumCPU() - 1; w > 1 {
		return w
	}
	return 1
}

// Config describes one ensemble run. Zero values for Trials, Workers and
// Perturbation select the defaults; everything else is required.
type Config struct {
	Trials       int
	Workers      int
	Seed         uint64
	Perturbation float64

	Baseline domain.Parameters
	Initial  domain.PoolState
	Forcing  domain.ForcingSeries
	Plant    domain.CarbonSeries
	Manure   domain.CarbonSeries

	RunID    string
	Scenario string

	Hooks  domain.LifecycleHooks
	Logger *slog.Logger
}

// task is the immutable descriptor a worker receives for one trial. Workers
// never touch the shared config or the sampling stream.
type task struct {
	trial   int
	params  domain.Parameters
	initial domain.PoolState
}

// Run executes the ensemble and returns one result per trial, ordered by
// trial index. For a fixed seed the output is bit-identical for any worker
// count: all parameter sets are drawn sequentially before fan-out, and each
// result lands in its own slot.
//
// The first failing trial cancels the rest and fails the run with a
// TrialError naming the member.
func Run(ctx context.Context, cfg Config) ([]domain.TrialResult, error) {
	if cfg.Trials == 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Trials < 0 {
		return nil, fmt.Errorf("%w: trial count %d", domain.ErrInvalidInput, cfg.Trials)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}
	if cfg.Perturbation == 0 {
		cfg.Perturbation = DefaultPerturbation
	}
	if cfg.Perturbation < 0 || cfg.Perturbation >= 1 {
		return nil, fmt.Errorf("%w: perturbation %v outside [0,1)", domain.ErrInvalidInput, cfg.Perturbation)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if err := cfg.Baseline.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Initial.Validate(); err != nil {
		return nil, err
	}
	months := len(cfg.Forcing)
	if months == 0 {
		return nil, fmt.Errorf("%w: empty forcing series", domain.ErrInvalidInput)
	}
	if len(cfg.Plant) != months || len(cfg.Manure) != months {
		return nil, fmt.Errorf("%w: series lengths differ (forcing %d, plant %d, manure %d)",
			domain.ErrInvalidInput, months, len(cfg.Plant), len(cfg.Manure))
	}

	// Draw the whole ensemble from one stream before any worker starts.
	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	tasks := make([]task, cfg.Trials)
	for i := range tasks {
		params, pools := Sample(rng, cfg.Baseline, cfg.Initial, cfg.Perturbation)
		tasks[i] = task{trial: i, params: params, initial: pools}
	}

	started := time.Now()
	fireRun(ctx, cfg.Hooks.OnRunStart, &domain.RunEvent{
		Timestamp: started,
		RunID:     cfg.RunID,
		Scenario:  cfg.Scenario,
		Trials:    cfg.Trials,
		Workers:   cfg.Workers,
		Months:    months,
	})
	cfg.Logger.Info("ensemble started",
		"run_id", cfg.RunID,
		"scenario", cfg.Scenario,
		"trials", cfg.Trials,
		"workers", cfg.Workers,
		"months", months,
		"seed", cfg.Seed,
	)

	results := make([]domain.TrialResult, cfg.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, tk := range tasks {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			trialStart := time.Now()
			traj, err := rothc.Integrate(tk.params, tk.initial, cfg.Forcing, cfg.Plant, cfg.Manure)
			fireTrial(gctx, cfg.Hooks.OnTrialDone, &domain.TrialEvent{
				Timestamp: time.Now(),
				RunID:     cfg.RunID,
				Trial:     tk.trial,
				Elapsed:   time.Since(trialStart),
				Err:       err,
			})
			if err != nil {
				return &domain.TrialError{Trial: tk.trial, Err: err}
			}
			results[tk.trial] = extract(tk, traj)
			return nil
		})
	}

	err := g.Wait()
	fireRun(ctx, cfg.Hooks.OnRunEnd, &domain.RunEvent{
		Timestamp: time.Now(),
		RunID:     cfg.RunID,
		Scenario:  cfg.Scenario,
		Trials:    cfg.Trials,
		Workers:   cfg.Workers,
		Months:    months,
		Elapsed:   time.Since(started),
		Err:       err,
	})
	if err != nil {
		cfg.Logger.Error("ensemble failed", "run_id", cfg.RunID, "error", err)
		return nil, err
	}
	cfg.Logger.Info("ensemble finished", "run_id", cfg.RunID, "elapsed", time.Since(started))
	return results, nil
}

// extract keeps only the per-month stocks; the full trajectory is dropped
// once the SOC and delta series are copied out.
func extract(tk task, traj domain.Trajectory) domain.TrialResult {
	soc := make([]float64, len(traj))
	delta := make([]float64, len(traj))
	for m, row := range traj {
		soc[m] = row.SOC
		delta[m] = traj[0].SOC - row.SOC
	}
	return domain.TrialResult{
		Trial:    tk.trial,
		Params:   tk.params,
		Initial:  tk.initial,
		SOC:      soc,
		DeltaSOC: delta,
	}
}

func fireRun(ctx context.Context, fn func(context.Context, *domain.RunEvent), ev *domain.RunEvent) {
	if fn != nil {
		fn(ctx, ev)
	}
}

func fireTrial(ctx context.Context, fn func(context.Context, *domain.TrialEvent), ev *domain.TrialEvent) {
	if fn != nil {
		fn(ctx, ev)
	}
}
