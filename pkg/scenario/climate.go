package scenario

import (
	"fmt"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Climate variables exported by the ALARO model runs, one table per variable
// and warming scenario.
const (
	VarTemperature   = "T"  // mean air temperature, degC
	VarPrecipitation = "P"  // precipitation, mm/month
	VarRelHumidity   = "RH" // relative humidity, percent
	VarNetRadiation  = "Rn" // net shortwave radiation, W/m2
)

// ClimateTable holds one climate variable keyed by calendar month.
type ClimateTable map[YearMonth]float64

// MonthlySeries resolves one value per simulated month starting at from. A
// month missing from the table fails the whole series; silently simulating
// over a NaN would only surface much later and far from the cause.
func (t ClimateTable) MonthlySeries(from YearMonth, months int) ([]float64, error) {
	if months < 1 {
		return nil, fmt.Errorf("%w: requested %d months", domain.ErrInvalidInput, months)
	}
	series := make([]float64, months)
	for m := range series {
		ym := from.AddMonths(m)
		v, ok := t[ym]
		if !ok {
			return nil, fmt.Errorf("%w: climate table has no value for %s", domain.ErrInvalidInput, ym)
		}
		series[m] = v
	}
	return series, nil
}
