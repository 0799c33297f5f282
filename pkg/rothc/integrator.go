package rothc

import (
	"fmt"
	"math"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Farmyard manure is already partly humified, so its carbon enters the pools
// with a fixed split instead of the DPM/RPM ratio used for fresh residue.
const (
	manureToDPM = 0.49
	manureToRPM = 0.49
	manureToHUM = 0.02
)

// negTolerance absorbs rounding noise around zero. Anything below it is a
// genuine anomaly and aborts the integration.
const negTolerance = -1e-9

// PartitionFractions returns the destination fractions for carbon leaving the
// decomposable pools at the given clay content (percent): the share respired
// as CO2 and the shares captured by the BIO and HUM compartments. The three
// always sum to 1.
func PartitionFractions(clay float64) (co2, bio, hum float64) {
	x := 1.67 * (1.85 + 1.60*math.Exp(-0.0786*clay))
	co2 = x / (x + 1)
	bio = 0.46 / (x + 1)
	hum = 0.54 / (x + 1)
	return co2, bio, hum
}

// Integrate advances the pools over len(forcing) monthly steps and returns
// the full trajectory, row 0 being the initial state. Each step decays the
// four active pools by exp(-k*f/12), adds the month's plant and manure
// carbon, and routes the decomposed mass to CO2, BIO and HUM according to
// the clay partition. IOM never changes.
func Integrate(params domain.Parameters, initial domain.PoolState, forcing domain.ForcingSeries, plant, manure domain.CarbonSeries) (domain.Trajectory, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	months := len(forcing)
	if months == 0 {
		return nil, fmt.Errorf("%w: empty forcing series", domain.ErrInvalidInput)
	}
	if len(plant) != months || len(manure) != months {
		return nil, fmt.Errorf("%w: series lengths differ (forcing %d, plant %d, manure %d)",
			domain.ErrInvalidInput, months, len(plant), len(manure))
	}
	if err := forcing.Validate(); err != nil {
		return nil, err
	}
	if err := plant.Validate(); err != nil {
		return nil, fmt.Errorf("plant input: %w", err)
	}
	if err := manure.Validate(); err != nil {
		return nil, fmt.Errorf("manure input: %w", err)
	}

	co2Frac, bioFrac, humFrac := PartitionFractions(params.Clay)
	plantToDPM := params.DR / (params.DR + 1)
	plantToRPM := 1 / (params.DR + 1)

	traj := make(domain.Trajectory, months+1)
	traj[0] = domain.TrajectoryRow{Month: 0, Pools: initial, SOC: initial.TotalSOC()}

	pools := initial
	var cumCO2 float64
	for m := 0; m < months; m++ {
		f := forcing[m]

		dpmLeft := pools.DPM * math.Exp(-params.Rates.DPM*f/12)
		rpmLeft := pools.RPM * math.Exp(-params.Rates.RPM*f/12)
		bioLeft := pools.BIO * math.Exp(-params.Rates.BIO*f/12)
		humLeft := pools.HUM * math.Exp(-params.Rates.HUM*f/12)

		loss := (pools.DPM - dpmLeft) + (pools.RPM - rpmLeft) +
			(pools.BIO - bioLeft) + (pools.HUM - humLeft)

		pools.DPM = dpmLeft + plantToDPM*plant[m] + manureToDPM*manure[m]
		pools.RPM = rpmLeft + plantToRPM*plant[m] + manureToRPM*manure[m]
		pools.BIO = bioLeft + bioFrac*loss
		pools.HUM = humLeft + humFrac*loss + manureToHUM*manure[m]
		co2 := co2Frac * loss
		cumCO2 += co2

		if err := checkStep(m+1, pools, co2); err != nil {
			return nil, err
		}
		traj[m+1] = domain.TrajectoryRow{
			Month:  m + 1,
			Pools:  pools,
			CO2:    co2,
			CumCO2: cumCO2,
			SOC:    pools.TotalSOC(),
		}
	}
	return traj, nil
}

// checkStep guards the post-step state. A finite value slightly below zero is
// rounding noise; anything else negative, and anything non-finite, is an
// anomaly that must surface instead of being clamped away.
func checkStep(month int, pools domain.PoolState, co2 float64) error {
	for _, q := range []struct {
		name string
		v    float64
	}{
		{"DPM", pools.DPM}, {"RPM", pools.RPM}, {"BIO", pools.BIO},
		{"HUM", pools.HUM}, {"IOM", pools.IOM}, {"CO2", co2},
	} {
		if math.IsNaN(q.v) || math.IsInf(q.v, 0) {
			return fmt.Errorf("%w: %s is %v at month %d", domain.ErrNumericAnomaly, q.name, q.v, month)
		}
		if q.v < negTolerance {
			return fmt.Errorf("%w: %s fell to %v at month %d", domain.ErrNumericAnomaly, q.name, q.v, month)
		}
	}
	return nil
}
