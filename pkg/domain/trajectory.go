package domain

// TrajectoryRow is the pool state at the end of one monthly step. Row 0 holds
// the initial state with no CO2 evolved yet.
type TrajectoryRow struct {
	Month  int       `json:"month"`
	Pools  PoolState `json:"pools"`
	CO2    float64   `json:"co2"`     // CO2-C evolved during this month, t C/ha
	CumCO2 float64   `json:"cum_co2"` // CO2-C evolved since month 0
	SOC    float64   `json:"soc"`     // sum of the five pools
}

// Trajectory is the full month-by-month record of one integration: L monthly
// steps produce L+1 rows.
type Trajectory []TrajectoryRow

// FinalSOC returns the stock after the last step, or 0 for an empty
// trajectory.
func (t Trajectory) FinalSOC() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].SOC
}

// TrialResult carries the per-month outputs of one perturbed ensemble member.
// DeltaSOC[m] is SOC[0] - SOC[m], so losses are positive and DeltaSOC[0] is
// exactly zero.
type TrialResult struct {
	Trial    int
	Params   Parameters
	Initial  PoolState
	SOC      []float64
	DeltaSOC []float64
}
