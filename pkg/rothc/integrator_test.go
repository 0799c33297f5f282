package rothc

import (
	"errors"
	"math"
	"testing"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

func nominalParams() domain.Parameters {
	return domain.DefaultParameters()
}

func referencePools(t *testing.T) domain.PoolState {
	t.Helper()
	pools, err := SplitInitialPools(41.3, 11.4)
	if err != nil {
		t.Fatalf("SplitInitialPools failed: %v", err)
	}
	return pools
}

func TestPartitionFractions(t *testing.T) {
	prevCO2 := 1.0
	for clay := 0.0; clay <= 60.0; clay += 0.5 {
		co2, bio, hum := PartitionFractions(clay)
		if sum := co2 + bio + hum; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("fractions at clay %v sum to %v", clay, sum)
		}
		if co2 <= 0 || bio <= 0 || hum <= 0 {
			t.Fatalf("non-positive fraction at clay %v: %v %v %v", clay, co2, bio, hum)
		}
		// Heavier soils respire less of the decomposed carbon.
		if co2 >= prevCO2 {
			t.Fatalf("CO2 share not decreasing at clay %v: %v >= %v", clay, co2, prevCO2)
		}
		prevCO2 = co2
	}
}

func TestIntegrate_MassConservation(t *testing.T) {
	const months = 24
	forcing := make(domain.ForcingSeries, months)
	plant := make(domain.CarbonSeries, months)
	manure := make(domain.CarbonSeries, months)
	for m := 0; m < months; m++ {
		forcing[m] = 0.3 + 0.6*math.Abs(math.Sin(float64(m)/3))
		plant[m] = 0.25 * float64(m%4)
		if m%6 == 5 {
			manure[m] = 2.69
		}
	}

	traj, err := Integrate(nominalParams(), referencePools(t), forcing, plant, manure)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	if len(traj) != months+1 {
		t.Fatalf("trajectory length %d, want %d", len(traj), months+1)
	}

	for m := 0; m < months; m++ {
		before := traj[m].SOC + plant[m] + manure[m]
		after := traj[m+1].SOC + traj[m+1].CO2
		if rel := math.Abs(after-before) / math.Max(1, math.Abs(before)); rel > 1e-9 {
			t.Errorf("month %d leaks mass: before %v, after %v (rel %v)", m+1, before, after, rel)
		}
	}

	// Cumulative CO2 is the running sum of the per-step values.
	var sum float64
	for _, row := range traj[1:] {
		sum += row.CO2
		if math.Abs(row.CumCO2-sum) > 1e-9 {
			t.Errorf("month %d cumulative CO2 = %v, want %v", row.Month, row.CumCO2, sum)
		}
	}
}

func TestIntegrate_IOMNeverChanges(t *testing.T) {
	initial := referencePools(t)
	forcing := domain.ForcingSeries{1, 0.5, 0, 0.8, 1, 1}
	plant := domain.CarbonSeries{0, 1, 0, 2, 0, 0.5}
	manure := domain.CarbonSeries{0, 0, 2.69, 0, 0, 0}

	traj, err := Integrate(nominalParams(), initial, forcing, plant, manure)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	for _, row := range traj {
		if row.Pools.IOM != initial.IOM {
			t.Fatalf("IOM drifted at month %d: %v != %v", row.Month, row.Pools.IOM, initial.IOM)
		}
	}
}

func TestIntegrate_LongHorizonStaysNonNegative(t *testing.T) {
	const months = 1200
	forcing := make(domain.ForcingSeries, months)
	plant := make(domain.CarbonSeries, months)
	manure := make(domain.CarbonSeries, months)
	for m := 0; m < months; m++ {
		forcing[m] = 0.5 + 0.5*math.Sin(2*math.Pi*float64(m)/12)
		if forcing[m] < 0 {
			forcing[m] = 0
		}
		if m%12 == 7 {
			plant[m] = 3.2
		}
		if m%24 == 11 {
			manure[m] = 2.69
		}
	}

	traj, err := Integrate(nominalParams(), referencePools(t), forcing, plant, manure)
	if err != nil {
		t.Fatalf("Integrate failed over %d months: %v", months, err)
	}
	for _, row := range traj {
		for _, v := range []float64{row.Pools.DPM, row.Pools.RPM, row.Pools.BIO, row.Pools.HUM, row.Pools.IOM, row.CO2} {
			if v < -1e-9 || math.IsNaN(v) {
				t.Fatalf("month %d produced %v", row.Month, v)
			}
		}
	}
}

func TestIntegrate_ZeroInputDecayIsStrictlyMonotone(t *testing.T) {
	const months = 12
	forcing := make(domain.ForcingSeries, months)
	for m := range forcing {
		forcing[m] = 1
	}
	zero := make(domain.CarbonSeries, months)

	traj, err := Integrate(nominalParams(), referencePools(t), forcing, zero, zero)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	if math.Abs(traj[0].SOC-41.3) > 1e-9 {
		t.Fatalf("initial stock = %v, want the measured 41.3", traj[0].SOC)
	}
	for m := 1; m < len(traj); m++ {
		if traj[m].SOC >= traj[m-1].SOC {
			t.Errorf("SOC did not fall in month %d: %v >= %v", m, traj[m].SOC, traj[m-1].SOC)
		}
		if traj[m].CO2 <= 0 {
			t.Errorf("no respiration in month %d despite active pools", m)
		}
	}
}

func TestIntegrate_FreezingHaltsDecay(t *testing.T) {
	initial := referencePools(t)
	forcing := domain.ForcingSeries{0, 0, 0}
	zero := domain.CarbonSeries{0, 0, 0}

	traj, err := Integrate(nominalParams(), initial, forcing, zero, zero)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	for _, row := range traj {
		if row.SOC != initial.TotalSOC() {
			t.Errorf("month %d SOC = %v under zero forcing, want %v", row.Month, row.SOC, initial.TotalSOC())
		}
		if row.CO2 != 0 {
			t.Errorf("month %d evolved CO2 %v under zero forcing", row.Month, row.CO2)
		}
	}
}

func TestIntegrate_ManureSplit(t *testing.T) {
	// One month, no decay (zero forcing), manure only: the 0.49/0.49/0.02
	// split must land in DPM/RPM/HUM untouched by the decay partition.
	initial := domain.PoolState{}
	forcing := domain.ForcingSeries{0}
	plant := domain.CarbonSeries{0}
	manure := domain.CarbonSeries{10}

	traj, err := Integrate(nominalParams(), initial, forcing, plant, manure)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	got := traj[1].Pools
	if math.Abs(got.DPM-4.9) > 1e-12 || math.Abs(got.RPM-4.9) > 1e-12 || math.Abs(got.HUM-0.2) > 1e-12 {
		t.Errorf("manure split = %+v, want 4.9/4.9/0.2", got)
	}
	if got.BIO != 0 || got.IOM != 0 {
		t.Errorf("manure leaked into BIO or IOM: %+v", got)
	}
}

func TestIntegrate_PlantSplitFollowsDR(t *testing.T) {
	params := nominalParams()
	params.DR = 0.25 // grassland-like ratio: 20 percent DPM, 80 percent RPM
	initial := domain.PoolState{}
	forcing := domain.ForcingSeries{0}
	plant := domain.CarbonSeries{5}
	manure := domain.CarbonSeries{0}

	traj, err := Integrate(params, initial, forcing, plant, manure)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	got := traj[1].Pools
	if math.Abs(got.DPM-1) > 1e-12 || math.Abs(got.RPM-4) > 1e-12 {
		t.Errorf("plant split = DPM %v / RPM %v, want 1 / 4", got.DPM, got.RPM)
	}
}

func TestIntegrate_InputValidation(t *testing.T) {
	params := nominalParams()
	pools := domain.PoolState{HUM: 10, IOM: 2}
	forcing := domain.ForcingSeries{1, 1}
	ok := domain.CarbonSeries{0, 0}

	tests := []struct {
		name string
		run  func() error
	}{
		{"empty forcing", func() error {
			_, err := Integrate(params, pools, nil, nil, nil)
			return err
		}},
		{"length mismatch", func() error {
			_, err := Integrate(params, pools, forcing, domain.CarbonSeries{0}, ok)
			return err
		}},
		{"zero rate constant", func() error {
			bad := params
			bad.Rates.BIO = 0
			_, err := Integrate(bad, pools, forcing, ok, ok)
			return err
		}},
		{"non-positive DR", func() error {
			bad := params
			bad.DR = 0
			_, err := Integrate(bad, pools, forcing, ok, ok)
			return err
		}},
		{"negative pool", func() error {
			_, err := Integrate(params, domain.PoolState{DPM: -1}, forcing, ok, ok)
			return err
		}},
		{"negative forcing", func() error {
			_, err := Integrate(params, pools, domain.ForcingSeries{1, -0.1}, ok, ok)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestIntegrate_OverflowSurfacesAsAnomaly(t *testing.T) {
	// Two huge but individually finite carbon masses overflow when summed.
	// The step check must report the anomaly instead of emitting +Inf rows.
	initial := domain.PoolState{DPM: 1.7e308}
	forcing := domain.ForcingSeries{0}
	plant := domain.CarbonSeries{1.7e308}
	manure := domain.CarbonSeries{0}

	_, err := Integrate(nominalParams(), initial, forcing, plant, manure)
	if !errors.Is(err, domain.ErrNumericAnomaly) {
		t.Fatalf("want ErrNumericAnomaly, got %v", err)
	}
}
