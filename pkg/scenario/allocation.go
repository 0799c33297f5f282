package scenario

import (
	"github.com/q-beau/NBS-TP/pkg/domain"
)

// HarvestAllocation turns a per-crop carbon series, where every month of a
// cultivation period repeats the crop's seasonal input, into the monthly
// flux the model expects: half the seasonal input enters the soil at the
// final (harvest) month and a sixth in each of up to three months before it.
// Periods are runs of identical non-zero values; earlier months of a period
// contribute nothing.
//
// Periods shorter than four months allocate proportionally less than the
// full seasonal input, since there are fewer pre-harvest months to fill.
func HarvestAllocation(perCrop []float64) domain.CarbonSeries {
	out := make(domain.CarbonSeries, len(perCrop))
	for i := 0; i < len(perCrop); {
		v := perCrop[i]
		if v == 0 {
			i++
			continue
		}
		j := i
		for j+1 < len(perCrop) && perCrop[j+1] == v {
			j++
		}

		out[j] = v / 2
		for k := max(i, j-3); k < j; k++ {
			out[k] = v / 6
		}
		i = j + 1
	}
	return out
}

// ManureSchedule places one farmyard-manure application of amount at the
// last month of every second cultivation period of the target crop. In the
// reference rotation manure follows every other winter-wheat harvest.
func ManureSchedule(crops []CropCode, amount float64, target CropCode) domain.CarbonSeries {
	out := make(domain.CarbonSeries, len(crops))
	block := 0
	for i := 0; i < len(crops); {
		if crops[i] != target {
			i++
			continue
		}
		j := i
		for j+1 < len(crops) && crops[j+1] == target {
			j++
		}
		block++
		if block%2 == 0 {
			out[j] = amount
		}
		i = j + 1
	}
	return out
}
