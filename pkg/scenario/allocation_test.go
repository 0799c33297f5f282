package scenario

import (
	"math"
	"testing"
)

func TestHarvestAllocation_FullSeason(t *testing.T) {
	// Six months of one crop with a 3.0 t C/ha seasonal input: half lands at
	// harvest, a sixth in each of the three months before, nothing earlier.
	perCrop := []float64{0, 3, 3, 3, 3, 3, 3, 0}
	out := HarvestAllocation(perCrop)

	want := []float64{0, 0, 0, 0.5, 0.5, 0.5, 1.5, 0}
	for m := range want {
		if math.Abs(out[m]-want[m]) > 1e-12 {
			t.Errorf("month %d: %v, want %v", m, out[m], want[m])
		}
	}

	var total float64
	for _, v := range out {
		total += v
	}
	if math.Abs(total-3) > 1e-12 {
		t.Errorf("allocated %v, want the full seasonal 3", total)
	}
}

func TestHarvestAllocation_ShortSeasons(t *testing.T) {
	// Fewer than three pre-harvest months allocate proportionally less.
	cases := []struct {
		name  string
		in    []float64
		want  []float64
		total float64
	}{
		{"one month", []float64{6}, []float64{3}, 3},
		{"two months", []float64{6, 6}, []float64{1, 3}, 4},
		{"three months", []float64{6, 6, 6}, []float64{1, 1, 3}, 5},
		{"four months", []float64{6, 6, 6, 6}, []float64{1, 1, 1, 3}, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := HarvestAllocation(tc.in)
			var total float64
			for m := range tc.want {
				if math.Abs(out[m]-tc.want[m]) > 1e-12 {
					t.Errorf("month %d: %v, want %v", m, out[m], tc.want[m])
				}
				total += out[m]
			}
			if math.Abs(total-tc.total) > 1e-12 {
				t.Errorf("allocated %v, want %v", total, tc.total)
			}
		})
	}
}

func TestHarvestAllocation_AdjacentCropsSplitOnValue(t *testing.T) {
	// Two back-to-back crops with different seasonal inputs form separate
	// harvests; a zero month separates equal ones.
	out := HarvestAllocation([]float64{2, 2, 4, 4, 0, 4, 4})

	if out[1] != 1 || out[0] != 2.0/6 {
		t.Errorf("first crop allocation = %v, %v", out[0], out[1])
	}
	if out[3] != 2 || out[2] != 4.0/6 {
		t.Errorf("second crop allocation = %v, %v", out[2], out[3])
	}
	if out[4] != 0 {
		t.Errorf("separator month received %v", out[4])
	}
	if out[6] != 2 || out[5] != 4.0/6 {
		t.Errorf("third crop allocation = %v, %v", out[5], out[6])
	}
}

func TestHarvestAllocation_EmptyAndZero(t *testing.T) {
	if out := HarvestAllocation(nil); len(out) != 0 {
		t.Errorf("nil input produced %v", out)
	}
	out := HarvestAllocation([]float64{0, 0, 0})
	for m, v := range out {
		if v != 0 {
			t.Errorf("zero input allocated %v at month %d", v, m)
		}
	}
}

func TestManureSchedule_EverySecondBlock(t *testing.T) {
	w, b := WinterWheat, BareSoil
	crops := []CropCode{
		w, w, w, b, // block 1: no manure
		w, w, b, // block 2: manure at its last month (index 5)
		w, b, // block 3: none
		w, w, w, w, // block 4: manure at index 12
	}

	out := ManureSchedule(crops, 2.69, WinterWheat)
	if len(out) != len(crops) {
		t.Fatalf("schedule length %d, want %d", len(out), len(crops))
	}
	for m, v := range out {
		switch m {
		case 5, 12:
			if v != 2.69 {
				t.Errorf("month %d = %v, want 2.69", m, v)
			}
		default:
			if v != 0 {
				t.Errorf("month %d = %v, want 0", m, v)
			}
		}
	}
}

func TestManureSchedule_NoTargetCrop(t *testing.T) {
	out := ManureSchedule([]CropCode{Maize, Maize, BareSoil}, 2.69, WinterWheat)
	for m, v := range out {
		if v != 0 {
			t.Errorf("month %d = %v without any target blocks", m, v)
		}
	}
}
