package montecarlo

import (
	"math/rand/v2"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// DefaultPerturbation is the half-width of the uniform multiplier band
// applied to every sampled scalar.
const DefaultPerturbation = 0.20

// Sample draws one perturbed parameter set and initial pool state. Each of
// the ten scalars (the four rate constants, the DPM/RPM ratio and the five
// pools) gets its own uniform multiplier in [1-f, 1+f]. Clay and the forcing
// series are site properties shared by the whole ensemble and stay fixed.
//
// The draw order is part of the determinism contract: ten variates per call,
// rates first, then DR, then the pools in DPM/RPM/BIO/HUM/IOM order.
func Sample(rng *rand.Rand, baseline domain.Parameters, pools domain.PoolState, f float64) (domain.Parameters, domain.PoolState) {
	perturb := func(v float64) float64 {
		return v * (1 - f + 2*f*rng.Float64())
	}

	p := baseline
	p.Rates.DPM = perturb(baseline.Rates.DPM)
	p.Rates.RPM = perturb(baseline.Rates.RPM)
	p.Rates.BIO = perturb(baseline.Rates.BIO)
	p.Rates.HUM = perturb(baseline.Rates.HUM)
	p.DR = perturb(baseline.DR)

	s := pools
	s.DPM = perturb(pools.DPM)
	s.RPM = perturb(pools.RPM)
	s.BIO = perturb(pools.BIO)
	s.HUM = perturb(pools.HUM)
	s.IOM = perturb(pools.IOM)

	return p, s
}
