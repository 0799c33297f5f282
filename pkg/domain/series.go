package domain

import (
	"fmt"
	"math"
)

// ClimateRecord holds the weather and ground-cover inputs for one month.
type ClimateRecord struct {
	Temperature   float64 `json:"temperature"`   // mean air temperature, degC
	Precipitation float64 `json:"precipitation"` // mm/month
	Evaporation   float64 `json:"evaporation"`   // mm/month, open-pan or potential
	Cover         float64 `json:"cover"`         // retainment factor; values <= 0 mean "no reduction"
}

// CoverModifier returns the effective rate modifier for ground cover.
// A missing or non-positive value means the month applies no reduction.
func (r ClimateRecord) CoverModifier() float64 {
	if r.Cover <= 0 {
		return 1
	}
	return r.Cover
}

// Bare reports whether the month counts as bare soil for the purposes of the
// moisture-deficit cap. Any cover modifier below 1 marks the soil as covered.
func (r ClimateRecord) Bare() bool {
	return r.CoverModifier() >= 1
}

// ClimateSeries is one record per simulated month, in month order. The slice
// index is the month index; there are no gaps by construction.
type ClimateSeries []ClimateRecord

// Validate checks every record for non-finite values and negative water
// fluxes. Temperatures may be negative.
func (s ClimateSeries) Validate() error {
	for m, r := range s {
		switch {
		case !isFinite(r.Temperature):
			return fmt.Errorf("%w: non-finite temperature at month %d", ErrInvalidInput, m)
		case !isFinite(r.Precipitation) || r.Precipitation < 0:
			return fmt.Errorf("%w: bad precipitation %v at month %d", ErrInvalidInput, r.Precipitation, m)
		case !isFinite(r.Evaporation) || r.Evaporation < 0:
			return fmt.Errorf("%w: bad evaporation %v at month %d", ErrInvalidInput, r.Evaporation, m)
		case !isFinite(r.Cover):
			return fmt.Errorf("%w: non-finite cover at month %d", ErrInvalidInput, m)
		}
	}
	return nil
}

// ForcingSeries holds the combined monthly rate modifiers. Values are
// dimensionless, finite and non-negative.
type ForcingSeries []float64

// Validate rejects negative or non-finite modifiers.
func (f ForcingSeries) Validate() error {
	for m, v := range f {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("%w: bad rate modifier %v at month %d", ErrInvalidInput, v, m)
		}
	}
	return nil
}

// CarbonSeries holds a monthly carbon mass flux in t C/ha. Two instances
// drive a run: fresh plant residue and farmyard manure.
type CarbonSeries []float64

// Validate rejects negative or non-finite fluxes.
func (c CarbonSeries) Validate() error {
	for m, v := range c {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("%w: bad carbon input %v at month %d", ErrInvalidInput, v, m)
		}
	}
	return nil
}

// Total returns the summed flux over the whole series.
func (c CarbonSeries) Total() float64 {
	var sum float64
	for _, v := range c {
		sum += v
	}
	return sum
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
