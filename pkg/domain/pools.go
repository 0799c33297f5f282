package domain

import "fmt"

// PoolState holds the five carbon compartments in t C/ha. IOM is inert: it is
// set once when the state is built and never changes during integration.
type PoolState struct {
	DPM float64 `json:"dpm"` // decomposable plant material
	RPM float64 `json:"rpm"` // resistant plant material
	BIO float64 `json:"bio"` // microbial biomass
	HUM float64 `json:"hum"` // humified organic matter
	IOM float64 `json:"iom"` // inert organic matter
}

// TotalSOC returns the sum of all five compartments. SOC is always derived,
// never stored on its own.
func (p PoolState) TotalSOC() float64 {
	return p.DPM + p.RPM + p.BIO + p.HUM + p.IOM
}

// Validate rejects negative or non-finite compartments.
func (p PoolState) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"DPM", p.DPM}, {"RPM", p.RPM}, {"BIO", p.BIO}, {"HUM", p.HUM}, {"IOM", p.IOM},
	} {
		if !isFinite(c.v) || c.v < 0 {
			return fmt.Errorf("%w: bad %s pool %v", ErrInvalidInput, c.name, c.v)
		}
	}
	return nil
}

// RateConstants are the first-order decomposition constants, 1/year.
type RateConstants struct {
	DPM float64 `json:"dpm"`
	RPM float64 `json:"rpm"`
	BIO float64 `json:"bio"`
	HUM float64 `json:"hum"`
}

// Validate rejects non-positive or non-finite constants. IOM has no constant;
// it does not decay.
func (k RateConstants) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"DPM", k.DPM}, {"RPM", k.RPM}, {"BIO", k.BIO}, {"HUM", k.HUM},
	} {
		if !isFinite(c.v) || c.v <= 0 {
			return fmt.Errorf("%w: bad %s rate constant %v", ErrInvalidInput, c.name, c.v)
		}
	}
	return nil
}

// Parameters couples the site attributes with the kinetic constants of one
// integration. Clay content is expressed in percent.
type Parameters struct {
	Clay  float64       `json:"clay"` // clay content, percent
	DR    float64       `json:"dr"`   // DPM/RPM ratio of fresh plant input
	Rates RateConstants `json:"rates"`
}

// Validate checks the kinetic constants, the input split ratio and the clay
// content.
func (p Parameters) Validate() error {
	if err := p.Rates.Validate(); err != nil {
		return err
	}
	if !isFinite(p.DR) || p.DR <= 0 {
		return fmt.Errorf("%w: bad DPM/RPM ratio %v", ErrInvalidInput, p.DR)
	}
	if !isFinite(p.Clay) || p.Clay < 0 {
		return fmt.Errorf("%w: bad clay content %v", ErrInvalidInput, p.Clay)
	}
	return nil
}
