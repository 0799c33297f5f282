package nbstp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/montecarlo"
	"github.com/q-beau/NBS-TP/pkg/rothc"
)

// Version is reported by the CLI and stamped nowhere else.
const Version = "0.4.0"

// Baseline describes the site the simulator is calibrated to. The zero
// value of Parameters selects the nominal rate constants, clay content and
// DPM/RPM ratio; zero Depth and EvapFactor select the reference topsoil
// depth and evaporation factor. Either InitialSOC or InitialPools must be
// given; explicit pools win over the pedotransfer split.
type Baseline struct {
	Parameters   domain.Parameters
	InitialSOC   float64
	InitialPools *domain.PoolState
	Depth        float64
	EvapFactor   float64
}

// Simulator runs Monte Carlo ensembles against one fixed baseline. It is
// safe for concurrent use; every Run draws its own sampling stream.
type Simulator struct {
	baseline     Baseline
	trials       int
	workers      int
	seed         uint64
	perturbation float64
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTrials sets the ensemble size.
func WithTrials(n int) Option {
	return func(s *Simulator) {
		s.trials = n
	}
}

// WithWorkers caps the number of concurrent trials.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		s.workers = n
	}
}

// WithSeed fixes the sampling stream. Two runs with the same seed, baseline
// and input produce identical summaries for any worker count.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = seed
	}
}

// WithPerturbation sets the half-width of the uniform band the sampler
// draws parameter multipliers from.
func WithPerturbation(f float64) Option {
	return func(s *Simulator) {
		s.perturbation = f
	}
}

// WithLifecycleHooks registers observability callbacks. Merge logging and
// metrics hooks before passing them in.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithLogger sets a structured logger for run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New validates the baseline and returns a ready simulator.
func New(baseline Baseline, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		baseline:     baseline,
		trials:       montecarlo.DefaultTrials,
		workers:      montecarlo.DefaultWorkers(),
		perturbation: montecarlo.DefaultPerturbation,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.baseline.Parameters == (domain.Parameters{}) {
		s.baseline.Parameters = domain.DefaultParameters()
	}
	if s.baseline.Depth == 0 {
		s.baseline.Depth = rothc.DefaultDepth
	}
	if s.baseline.EvapFactor == 0 {
		s.baseline.EvapFactor = rothc.DefaultEvapFactor
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if err := s.baseline.Parameters.Validate(); err != nil {
		return nil, err
	}
	if s.baseline.InitialPools != nil {
		if err := s.baseline.InitialPools.Validate(); err != nil {
			return nil, err
		}
	} else if s.baseline.InitialSOC <= 0 {
		return nil, fmt.Errorf("%w: initial SOC %v must be positive (or provide explicit pools)",
			domain.ErrInvalidInput, s.baseline.InitialSOC)
	}
	switch {
	case s.trials < 1:
		return nil, fmt.Errorf("%w: trial count %d", domain.ErrInvalidInput, s.trials)
	case s.workers < 1:
		return nil, fmt.Errorf("%w: worker count %d", domain.ErrInvalidInput, s.workers)
	case s.perturbation <= 0 || s.perturbation >= 1:
		return nil, fmt.Errorf("%w: perturbation %v outside (0,1)", domain.ErrInvalidInput, s.perturbation)
	}

	return s, nil
}

// Run executes one Monte Carlo ensemble over the prepared input and returns
// the aggregated summary, stamped with a fresh run ID.
func (s *Simulator) Run(ctx context.Context, in domain.RunInput) (*domain.RunSummary, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	forcing, err := rothc.BuildForcing(in.Climate, rothc.ForcingConfig{
		Clay:       s.baseline.Parameters.Clay,
		Depth:      s.baseline.Depth,
		EvapFactor: s.baseline.EvapFactor,
	})
	if err != nil {
		return nil, err
	}

	initial := domain.PoolState{}
	if s.baseline.InitialPools != nil {
		initial = *s.baseline.InitialPools
	} else {
		initial, err = rothc.SplitInitialPools(s.baseline.InitialSOC, s.baseline.Parameters.Clay)
		if err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	results, err := montecarlo.Run(ctx, montecarlo.Config{
		Trials:       s.trials,
		Workers:      s.workers,
		Seed:         s.seed,
		Perturbation: s.perturbation,
		Baseline:     s.baseline.Parameters,
		Initial:      initial,
		Forcing:      forcing,
		Plant:        in.PlantInput,
		Manure:       in.ManureInput,
		RunID:        runID,
		Scenario:     in.Scenario,
		Hooks:        s.hooks,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, err
	}

	rows, err := montecarlo.Aggregate(results)
	if err != nil {
		return nil, err
	}

	return &domain.RunSummary{
		ID:        runID,
		Scenario:  in.Scenario,
		Trials:    s.trials,
		Seed:      s.seed,
		Workers:   s.workers,
		CreatedAt: time.Now().UTC(),
		Rows:      rows,
	}, nil
}
