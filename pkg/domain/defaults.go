package domain

// Nominal decomposition constants for the four active compartments, 1/year.
const (
	DefaultRateDPM = 10.0
	DefaultRateRPM = 0.3
	DefaultRateBIO = 0.66
	DefaultRateHUM = 0.02
)

// DefaultDR is the DPM/RPM partition ratio for fresh input from arable crops.
const DefaultDR = 1.44

// DefaultClay is the topsoil clay content of the reference site, percent.
const DefaultClay = 11.4

// DefaultParameters returns the nominal parameter set used when a site does
// not override anything.
func DefaultParameters() Parameters {
	return Parameters{
		Clay: DefaultClay,
		DR:   DefaultDR,
		Rates: RateConstants{
			DPM: DefaultRateDPM,
			RPM: DefaultRateRPM,
			BIO: DefaultRateBIO,
			HUM: DefaultRateHUM,
		},
	}
}
