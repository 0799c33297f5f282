package montecarlo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/rothc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func benignConfig(t *testing.T, months int) Config {
	t.Helper()
	initial, err := rothc.SplitInitialPools(41.3, 11.4)
	if err != nil {
		t.Fatalf("SplitInitialPools failed: %v", err)
	}
	forcing := make(domain.ForcingSeries, months)
	plant := make(domain.CarbonSeries, months)
	manure := make(domain.CarbonSeries, months)
	for m := 0; m < months; m++ {
		forcing[m] = 1
		if m%3 == 2 {
			plant[m] = 0.8
		}
	}
	return Config{
		Trials:   48,
		Workers:  2,
		Seed:     42,
		Baseline: domain.DefaultParameters(),
		Initial:  initial,
		Forcing:  forcing,
		Plant:    plant,
		Manure:   manure,
		RunID:    "test-run",
		Scenario: "unit",
	}
}

func TestRun_ResultShape(t *testing.T) {
	cfg := benignConfig(t, 6)
	results, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != cfg.Trials {
		t.Fatalf("got %d results, want %d", len(results), cfg.Trials)
	}
	for i, res := range results {
		if res.Trial != i {
			t.Fatalf("result %d carries trial id %d", i, res.Trial)
		}
		if len(res.SOC) != 7 || len(res.DeltaSOC) != 7 {
			t.Fatalf("trial %d series length SOC=%d delta=%d, want 7", i, len(res.SOC), len(res.DeltaSOC))
		}
		if res.DeltaSOC[0] != 0 {
			t.Errorf("trial %d delta at month 0 = %v, want exactly 0", i, res.DeltaSOC[0])
		}
		for m := range res.SOC {
			if want := res.SOC[0] - res.SOC[m]; res.DeltaSOC[m] != want {
				t.Errorf("trial %d month %d delta = %v, want %v", i, m, res.DeltaSOC[m], want)
			}
		}
	}
}

func TestRun_SeedDeterminismAcrossWorkerCounts(t *testing.T) {
	base := benignConfig(t, 6)

	var summaries []domain.Summary
	for _, workers := range []int{1, 3, 8} {
		cfg := base
		cfg.Workers = workers
		results, err := Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Run with %d workers failed: %v", workers, err)
		}
		summary, err := Aggregate(results)
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		summaries = append(summaries, summary)
	}

	for i := 1; i < len(summaries); i++ {
		if len(summaries[i]) != len(summaries[0]) {
			t.Fatalf("summary %d has %d rows, want %d", i, len(summaries[i]), len(summaries[0]))
		}
		for m := range summaries[0] {
			if summaries[i][m] != summaries[0][m] {
				t.Fatalf("summaries diverge at month %d: %+v vs %+v", m, summaries[i][m], summaries[0][m])
			}
		}
	}
}

func TestRun_DifferentSeedsDiffer(t *testing.T) {
	cfg := benignConfig(t, 4)
	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	cfg.Seed = 43
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	same := true
	for i := range a {
		for m := range a[i].SOC {
			if a[i].SOC[m] != b[i].SOC[m] {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical ensembles")
	}
}

func TestRun_HooksObserveTheWholeRun(t *testing.T) {
	cfg := benignConfig(t, 3)

	var mu sync.Mutex
	var starts, trials, ends int
	var endErr error
	cfg.Hooks = domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) {
			mu.Lock()
			starts++
			mu.Unlock()
			if ev.Trials != cfg.Trials || ev.Months != 3 {
				t.Errorf("start event = %+v", ev)
			}
		},
		OnTrialDone: func(_ context.Context, ev *domain.TrialEvent) {
			mu.Lock()
			trials++
			mu.Unlock()
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			mu.Lock()
			ends++
			endErr = ev.Err
			mu.Unlock()
		},
	}

	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if starts != 1 || ends != 1 {
		t.Errorf("run hooks fired %d/%d times, want 1/1", starts, ends)
	}
	if trials != cfg.Trials {
		t.Errorf("trial hook fired %d times, want %d", trials, cfg.Trials)
	}
	if endErr != nil {
		t.Errorf("end event carries error %v for a clean run", endErr)
	}
}

func TestRun_AbortsOnPoisonedTrial(t *testing.T) {
	cfg := benignConfig(t, 1)
	// Two huge but finite masses overflow inside the first step of every
	// trial; the run must fail with a trial error, not deliver +Inf rows.
	cfg.Initial = domain.PoolState{DPM: 1.7e308}
	cfg.Forcing = domain.ForcingSeries{0}
	cfg.Plant = domain.CarbonSeries{1.7e308}
	cfg.Manure = domain.CarbonSeries{0}

	results, err := Run(context.Background(), cfg)
	if results != nil {
		t.Error("failed run still returned results")
	}
	if !errors.Is(err, domain.ErrNumericAnomaly) {
		t.Fatalf("want ErrNumericAnomaly through the trial error, got %v", err)
	}
	var te *domain.TrialError
	if !errors.As(err, &te) {
		t.Fatalf("error %v does not name the failing trial", err)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	cfg := benignConfig(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRun_ConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative trials", func(c *Config) { c.Trials = -1 }},
		{"perturbation too wide", func(c *Config) { c.Perturbation = 1 }},
		{"negative perturbation", func(c *Config) { c.Perturbation = -0.1 }},
		{"empty forcing", func(c *Config) { c.Forcing = nil }},
		{"ragged series", func(c *Config) { c.Plant = c.Plant[:1] }},
		{"bad baseline", func(c *Config) { c.Baseline.DR = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := benignConfig(t, 3)
			tt.mutate(&cfg)
			if _, err := Run(context.Background(), cfg); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}
