package rothc

import (
	"fmt"
	"math"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// SplitInitialPools distributes a measured carbon stock (t C/ha) over the
// five compartments. The inert share follows Falloon's relation on total SOC;
// the RPM, HUM and BIO stocks come from the Weihermueller pedotransfer
// functions on SOC and clay (percent); DPM takes whatever remains, floored at
// zero for shallow stocks where the pedotransfer shares overshoot.
func SplitInitialPools(soc, clay float64) (domain.PoolState, error) {
	switch {
	case math.IsNaN(soc) || math.IsInf(soc, 0) || soc < 0:
		return domain.PoolState{}, fmt.Errorf("%w: total SOC %v", domain.ErrInvalidInput, soc)
	case math.IsNaN(clay) || math.IsInf(clay, 0) || clay < 0:
		return domain.PoolState{}, fmt.Errorf("%w: clay content %v", domain.ErrInvalidInput, clay)
	}

	iom := 0.049 * math.Pow(soc, 1.139)
	rpm := (0.1847*soc + 0.1555) * math.Pow(clay+1.2313, -0.1158)
	hum := (0.7148*soc + 0.5069) * math.Pow(clay+0.3421, -0.0184)
	bio := (0.0140*soc + 0.0075) * math.Pow(clay+8.8473, -0.0567)

	dpm := soc - iom - rpm - hum - bio
	if dpm < 0 {
		dpm = 0
	}

	pools := domain.PoolState{DPM: dpm, RPM: rpm, BIO: bio, HUM: hum, IOM: iom}
	if err := pools.Validate(); err != nil {
		return domain.PoolState{}, err
	}
	return pools, nil
}
