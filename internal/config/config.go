// Package config loads the simulator configuration. Values are layered:
// compiled defaults first, then an optional YAML file, then NBSTP_-prefixed
// environment variables, each layer overriding the previous one. The zero
// config (no file, no environment) reproduces the published reference runs
// for the Gembloux site.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/montecarlo"
	"github.com/q-beau/NBS-TP/pkg/rothc"
	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// DefaultSOC is the measured initial carbon stock of the reference site,
// t C/ha over the sampled topsoil depth.
const DefaultSOC = 41.3

// Site describes the soil and climate station the simulation applies to.
type Site struct {
	SOC        float64 `yaml:"soc"`
	Clay       float64 `yaml:"clay"`
	Depth      float64 `yaml:"depth"`
	DR         float64 `yaml:"dr"`
	EvapFactor float64 `yaml:"evap_factor"`
	Latitude   float64 `yaml:"latitude"`
}

// Rates holds the nominal decomposition constants, 1/year.
type Rates struct {
	DPM float64 `yaml:"dpm"`
	RPM float64 `yaml:"rpm"`
	BIO float64 `yaml:"bio"`
	HUM float64 `yaml:"hum"`
}

// Ensemble controls the Monte Carlo run. Workers zero means one worker per
// spare CPU.
type Ensemble struct {
	Trials       int     `yaml:"trials" env:"NBSTP_TRIALS"`
	Workers      int     `yaml:"workers" env:"NBSTP_WORKERS"`
	Seed         uint64  `yaml:"seed" env:"NBSTP_SEED"`
	Perturbation float64 `yaml:"perturbation" env:"NBSTP_PERTURBATION"`
}

// Scenarios spans the simulation grid: every combination of warming pathway,
// straw-return percentage and rotation becomes one run.
type Scenarios struct {
	Warming     []string `yaml:"warming"`
	StrawReturn []int    `yaml:"straw_return"`
	Rotations   []string `yaml:"rotations"`
}

// Manure schedules farmyard manure applications during scenario preparation.
type Manure struct {
	Amount     float64 `yaml:"amount"`
	TargetCrop string  `yaml:"target_crop"`
}

// Paths locates the input data directory and the directory run outputs are
// written to.
type Paths struct {
	Data    string `yaml:"data" env:"NBSTP_DATA_DIR"`
	Results string `yaml:"results" env:"NBSTP_RESULTS_DIR"`
}

// Store selects and configures the run archive. An empty driver disables
// archiving.
type Store struct {
	Driver string `yaml:"driver" env:"NBSTP_STORE_DRIVER"`
	Dir    string `yaml:"dir" env:"NBSTP_STORE_DIR"`
	DSN    string `yaml:"dsn" env:"NBSTP_STORE_DSN"`
	Addr   string `yaml:"addr" env:"NBSTP_STORE_ADDR"`
	Prefix string `yaml:"prefix" env:"NBSTP_STORE_PREFIX"`
}

// Override carries per-scenario deviations from the global settings. Nil
// fields inherit; the YAML shape is a map from scenario label to settings.
type Override struct {
	Trials       *int     `mapstructure:"trials"`
	Workers      *int     `mapstructure:"workers"`
	Seed         *uint64  `mapstructure:"seed"`
	Perturbation *float64 `mapstructure:"perturbation"`
	Manure       *float64 `mapstructure:"manure"`
}

// Config is the complete simulator configuration.
type Config struct {
	Site      Site      `yaml:"site"`
	Rates     Rates     `yaml:"rates"`
	Ensemble  Ensemble  `yaml:"ensemble"`
	Scenarios Scenarios `yaml:"scenarios"`
	Manure    Manure    `yaml:"manure"`
	Paths     Paths     `yaml:"paths"`
	Store     Store     `yaml:"store"`

	// Overrides maps a scenario label ("8.5_ecofood_ref_50") to settings
	// that replace the globals for that run only.
	Overrides map[string]map[string]any `yaml:"overrides"`
}

// Default returns the reference configuration: nominal RothC rates, the
// Gembloux site, and the full published scenario grid.
func Default() Config {
	return Config{
		Site: Site{
			SOC:        DefaultSOC,
			Clay:       domain.DefaultClay,
			Depth:      rothc.DefaultDepth,
			DR:         domain.DefaultDR,
			EvapFactor: rothc.DefaultEvapFactor,
			Latitude:   scenario.DefaultLatitude,
		},
		Rates: Rates{
			DPM: domain.DefaultRateDPM,
			RPM: domain.DefaultRateRPM,
			BIO: domain.DefaultRateBIO,
			HUM: domain.DefaultRateHUM,
		},
		Ensemble: Ensemble{
			Trials:       montecarlo.DefaultTrials,
			Seed:         42,
			Perturbation: montecarlo.DefaultPerturbation,
		},
		Scenarios: Scenarios{
			Warming:     []string{"2.6", "4.5", "8.5"},
			StrawReturn: []int{0, 50, 100},
			Rotations:   []string{"baselinesubset", "ecofood_ref", "ecofood_vegan"},
		},
		Manure: Manure{
			Amount:     scenario.DefaultManureAmount,
			TargetCrop: scenario.WinterWheat.String(),
		},
		Paths: Paths{
			Data:    "data",
			Results: "results",
		},
	}
}

// Load builds the configuration from the default values, the YAML file at
// path (skipped when path is empty) and the environment, then validates the
// result. A named file that does not exist is an error; only the empty path
// means "defaults only".
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field the simulation depends on. It reports the
// first violation.
func (c Config) Validate() error {
	switch {
	case c.Site.SOC <= 0:
		return fmt.Errorf("%w: initial SOC %v must be positive", domain.ErrInvalidInput, c.Site.SOC)
	case c.Site.Clay < 0 || c.Site.Clay > 100:
		return fmt.Errorf("%w: clay %v%% outside 0..100", domain.ErrInvalidInput, c.Site.Clay)
	case c.Site.Depth <= 0:
		return fmt.Errorf("%w: depth %v must be positive", domain.ErrInvalidInput, c.Site.Depth)
	case c.Site.DR <= 0:
		return fmt.Errorf("%w: DPM/RPM ratio %v must be positive", domain.ErrInvalidInput, c.Site.DR)
	case c.Site.EvapFactor <= 0:
		return fmt.Errorf("%w: evaporation factor %v must be positive", domain.ErrInvalidInput, c.Site.EvapFactor)
	}

	for _, r := range []struct {
		name string
		k    float64
	}{
		{"DPM", c.Rates.DPM},
		{"RPM", c.Rates.RPM},
		{"BIO", c.Rates.BIO},
		{"HUM", c.Rates.HUM},
	} {
		if r.k <= 0 {
			return fmt.Errorf("%w: %s rate %v must be positive", domain.ErrInvalidInput, r.name, r.k)
		}
	}

	switch {
	case c.Ensemble.Trials < 1:
		return fmt.Errorf("%w: trials %d must be at least 1", domain.ErrInvalidInput, c.Ensemble.Trials)
	case c.Ensemble.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", domain.ErrInvalidInput, c.Ensemble.Workers)
	case c.Ensemble.Perturbation < 0 || c.Ensemble.Perturbation >= 1:
		return fmt.Errorf("%w: perturbation %v outside [0,1)", domain.ErrInvalidInput, c.Ensemble.Perturbation)
	}

	for _, pct := range c.Scenarios.StrawReturn {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: straw return %d%% outside 0..100", domain.ErrInvalidInput, pct)
		}
	}

	if c.Manure.Amount < 0 {
		return fmt.Errorf("%w: manure amount %v must not be negative", domain.ErrInvalidInput, c.Manure.Amount)
	}
	if c.Manure.Amount > 0 {
		if _, ok := scenario.CropByName(c.Manure.TargetCrop); !ok {
			return fmt.Errorf("%w: unknown manure target crop %q", domain.ErrInvalidInput, c.Manure.TargetCrop)
		}
	}

	switch c.Store.Driver {
	case "", "memory", "file", "redis", "sqlite":
	default:
		return fmt.Errorf("%w: unknown store driver %q", domain.ErrInvalidInput, c.Store.Driver)
	}

	return nil
}

// Parameters returns the decay parameter set the config describes.
func (c Config) Parameters() domain.Parameters {
	return domain.Parameters{
		Clay: c.Site.Clay,
		DR:   c.Site.DR,
		Rates: domain.RateConstants{
			DPM: c.Rates.DPM,
			RPM: c.Rates.RPM,
			BIO: c.Rates.BIO,
			HUM: c.Rates.HUM,
		},
	}
}

// Grid expands the scenario axes into the full list of runs.
func (c Config) Grid() []scenario.Spec {
	return scenario.Grid(c.Scenarios.Warming, c.Scenarios.StrawReturn, c.Scenarios.Rotations)
}

// ManureCrop resolves the configured manure target crop.
func (c Config) ManureCrop() (scenario.CropCode, error) {
	code, ok := scenario.CropByName(c.Manure.TargetCrop)
	if !ok {
		return 0, fmt.Errorf("%w: unknown manure target crop %q", domain.ErrInvalidInput, c.Manure.TargetCrop)
	}
	return code, nil
}

// OverrideFor decodes the override block for one scenario label. Labels
// without an entry get the zero Override, which inherits everything.
func (c Config) OverrideFor(label string) (Override, error) {
	raw, ok := c.Overrides[label]
	if !ok {
		return Override{}, nil
	}
	var o Override
	if err := mapstructure.Decode(raw, &o); err != nil {
		return Override{}, fmt.Errorf("%w: override for %s: %v", domain.ErrInvalidInput, label, err)
	}
	if o.Trials != nil && *o.Trials < 1 {
		return Override{}, fmt.Errorf("%w: override for %s: trials %d must be at least 1", domain.ErrInvalidInput, label, *o.Trials)
	}
	if o.Perturbation != nil && (*o.Perturbation < 0 || *o.Perturbation >= 1) {
		return Override{}, fmt.Errorf("%w: override for %s: perturbation %v outside [0,1)", domain.ErrInvalidInput, label, *o.Perturbation)
	}
	if o.Manure != nil && *o.Manure < 0 {
		return Override{}, fmt.Errorf("%w: override for %s: manure %v must not be negative", domain.ErrInvalidInput, label, *o.Manure)
	}
	return o, nil
}

// EnsembleFor returns the ensemble settings for one scenario, with any
// override applied on top of the globals.
func (c Config) EnsembleFor(label string) (Ensemble, error) {
	o, err := c.OverrideFor(label)
	if err != nil {
		return Ensemble{}, err
	}
	e := c.Ensemble
	if o.Trials != nil {
		e.Trials = *o.Trials
	}
	if o.Workers != nil {
		e.Workers = *o.Workers
	}
	if o.Seed != nil {
		e.Seed = *o.Seed
	}
	if o.Perturbation != nil {
		e.Perturbation = *o.Perturbation
	}
	return e, nil
}

// ManureFor returns the manure amount for one scenario, with any override
// applied.
func (c Config) ManureFor(label string) (float64, error) {
	o, err := c.OverrideFor(label)
	if err != nil {
		return 0, err
	}
	if o.Manure != nil {
		return *o.Manure, nil
	}
	return c.Manure.Amount, nil
}
