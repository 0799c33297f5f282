package montecarlo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Aggregate reduces per-trial series to per-month ensemble statistics: mean
// and sample standard deviation of SOC and of delta SOC, in month order.
//
// A trial contributes to a month only when both its SOC and delta values are
// finite there; Samples records how many did. The runner never delivers
// non-finite values (anomalies abort the run), but the aggregator stays total
// so it can be pointed at diagnostic data.
func Aggregate(trials []domain.TrialResult) (domain.Summary, error) {
	if len(trials) == 0 {
		return nil, fmt.Errorf("%w: no trials to aggregate", domain.ErrInvalidInput)
	}
	months := len(trials[0].SOC)
	if months == 0 {
		return nil, fmt.Errorf("%w: trial 0 has no months", domain.ErrInvalidInput)
	}
	for _, tr := range trials {
		if len(tr.SOC) != months || len(tr.DeltaSOC) != months {
			return nil, fmt.Errorf("%w: trial %d is ragged (SOC %d, delta %d, want %d)",
				domain.ErrInvalidInput, tr.Trial, len(tr.SOC), len(tr.DeltaSOC), months)
		}
	}

	summary := make(domain.Summary, months)
	soc := make([]float64, 0, len(trials))
	delta := make([]float64, 0, len(trials))
	for m := 0; m < months; m++ {
		soc = soc[:0]
		delta = delta[:0]
		for _, tr := range trials {
			s, d := tr.SOC[m], tr.DeltaSOC[m]
			if math.IsNaN(s) || math.IsInf(s, 0) || math.IsNaN(d) || math.IsInf(d, 0) {
				continue
			}
			soc = append(soc, s)
			delta = append(delta, d)
		}

		meanSOC, stdSOC := meanStd(soc)
		meanDelta, stdDelta := meanStd(delta)
		summary[m] = domain.SummaryRow{
			Month:     m,
			MeanSOC:   meanSOC,
			StdSOC:    stdSOC,
			MeanDelta: meanDelta,
			StdDelta:  stdDelta,
			Samples:   len(soc),
		}
	}
	return summary, nil
}

// meanStd wraps the gonum estimators with the small-sample conventions the
// summary needs: no samples yield zeros, and a single sample has zero spread
// rather than the undefined value gonum reports.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	if len(xs) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(xs, nil)
}
