package domain

import (
	"fmt"
	"time"
)

// SummaryRow aggregates one month across all ensemble members. Samples counts
// the finite values behind the statistics; it normally equals the trial count.
type SummaryRow struct {
	Month     int     `json:"month"`
	MeanSOC   float64 `json:"soc_mean"`
	StdSOC    float64 `json:"soc_sd"`
	MeanDelta float64 `json:"delta_soc_mean"`
	StdDelta  float64 `json:"delta_soc_sd"`
	Samples   int     `json:"samples"`
}

// Summary is one row per month, ordered 0..L.
type Summary []SummaryRow

// RunInput is the complete, validated input table for one scenario run. All
// three series cover the same months.
type RunInput struct {
	Scenario    string        `json:"scenario"`
	Climate     ClimateSeries `json:"climate"`
	PlantInput  CarbonSeries  `json:"plant_input"`
	ManureInput CarbonSeries  `json:"manure_input"`
}

// Months returns the simulation horizon in months.
func (in RunInput) Months() int { return len(in.Climate) }

// Validate checks that the three series agree in length, are non-empty and
// individually well-formed.
func (in RunInput) Validate() error {
	n := len(in.Climate)
	if n == 0 {
		return fmt.Errorf("%w: empty climate series", ErrInvalidInput)
	}
	if len(in.PlantInput) != n || len(in.ManureInput) != n {
		return fmt.Errorf("%w: series lengths differ (climate %d, plant %d, manure %d)",
			ErrInvalidInput, n, len(in.PlantInput), len(in.ManureInput))
	}
	if err := in.Climate.Validate(); err != nil {
		return err
	}
	if err := in.PlantInput.Validate(); err != nil {
		return fmt.Errorf("plant input: %w", err)
	}
	if err := in.ManureInput.Validate(); err != nil {
		return fmt.Errorf("manure input: %w", err)
	}
	return nil
}

// RunSummary is the persisted artifact of a completed Monte Carlo run.
type RunSummary struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Trials    int       `json:"trials"`
	Seed      uint64    `json:"seed"`
	Workers   int       `json:"workers"`
	CreatedAt time.Time `json:"created_at"`
	Rows      Summary   `json:"rows"`
}

// Horizon returns the last month index covered by the summary, or -1 when the
// summary is empty.
func (r *RunSummary) Horizon() int {
	if len(r.Rows) == 0 {
		return -1
	}
	return r.Rows[len(r.Rows)-1].Month
}
