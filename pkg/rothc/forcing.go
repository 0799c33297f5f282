package rothc

import (
	"fmt"
	"math"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Moisture-deficit geometry. The reference maximum deficit is fitted for a
// 23 cm topsoil layer and scaled linearly for other depths; bare soil can
// only dry to 1/1.8 of the covered maximum.
const (
	DefaultDepth      = 23.0 // topsoil depth, cm
	DefaultEvapFactor = 0.75 // open-pan evaporation to transpiration demand
	bareDeficitDiv    = 1.8
	deficitKnee       = 0.444 // fraction of the maximum deficit where retardation starts
	moistureFloor     = 0.2
)

// ForcingConfig holds the site attributes needed to turn climate records into
// rate modifiers.
type ForcingConfig struct {
	Clay       float64 // clay content, percent
	Depth      float64 // topsoil depth, cm
	EvapFactor float64 // multiplier applied to the evaporation column
}

// DefaultForcingConfig returns the reference-site configuration.
func DefaultForcingConfig() ForcingConfig {
	return ForcingConfig{
		Clay:       domain.DefaultClay,
		Depth:      DefaultDepth,
		EvapFactor: DefaultEvapFactor,
	}
}

func (c ForcingConfig) validate() error {
	switch {
	case c.Clay < 0 || math.IsNaN(c.Clay) || math.IsInf(c.Clay, 0):
		return fmt.Errorf("%w: clay content %v", domain.ErrInvalidInput, c.Clay)
	case c.Depth <= 0 || math.IsNaN(c.Depth) || math.IsInf(c.Depth, 0):
		return fmt.Errorf("%w: topsoil depth %v", domain.ErrInvalidInput, c.Depth)
	case c.EvapFactor <= 0 || math.IsNaN(c.EvapFactor) || math.IsInf(c.EvapFactor, 0):
		return fmt.Errorf("%w: evaporation factor %v", domain.ErrInvalidInput, c.EvapFactor)
	}
	return nil
}

// BuildForcing computes the combined monthly rate modifier for the whole
// climate series. The moisture term carries state (the accumulated topsoil
// moisture deficit) from month to month; temperature and cover are memoryless.
func BuildForcing(climate domain.ClimateSeries, cfg ForcingConfig) (domain.ForcingSeries, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(climate) == 0 {
		return nil, fmt.Errorf("%w: empty climate series", domain.ErrInvalidInput)
	}
	if err := climate.Validate(); err != nil {
		return nil, err
	}

	maxFull := MaxDeficit(cfg.Clay, cfg.Depth)
	maxBare := maxFull / bareDeficitDiv

	forcing := make(domain.ForcingSeries, len(climate))
	var deficit float64
	for m, rec := range climate {
		delta := cfg.EvapFactor*rec.Evaporation - rec.Precipitation
		if delta > 0 {
			limit := maxFull
			if rec.Bare() {
				limit = maxBare
			}
			// Drying can only push the deficit up to the applicable limit.
			// A larger deficit inherited from covered months persists.
			if deficit < limit {
				deficit = math.Min(deficit+delta, limit)
			}
		} else {
			deficit = math.Max(0, deficit+delta)
		}

		forcing[m] = TemperatureModifier(rec.Temperature) *
			moistureModifier(deficit, maxFull) *
			rec.CoverModifier()
	}
	return forcing, nil
}

// TemperatureModifier returns the temperature rate modifier on a unit scale:
// the classic RothC logistic divided by its supremum, so values lie in [0,1),
// approach 1 for hot months and drop to 0 at the -18.27 degC singularity.
func TemperatureModifier(t float64) float64 {
	if t <= -18.27 {
		return 0
	}
	return 2 / (1 + math.Exp(106.06/(t+18.27)))
}

// MaxDeficit returns the maximum accumulated moisture deficit (mm) a covered
// soil of the given clay content (percent) and depth (cm) can develop.
func MaxDeficit(clay, depth float64) float64 {
	return (20 + 1.3*clay - 0.01*clay*clay) * depth / DefaultDepth
}

// moistureModifier maps the current deficit to a rate modifier: 1 while the
// soil is wetter than the knee, then linear down to the floor at the maximum
// deficit.
func moistureModifier(deficit, maxFull float64) float64 {
	knee := deficitKnee * maxFull
	if deficit < knee {
		return 1
	}
	return moistureFloor + (1-moistureFloor)*(maxFull-deficit)/(maxFull-knee)
}
