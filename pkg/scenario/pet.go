package scenario

import (
	"fmt"
	"math"
	"time"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// DefaultLatitude is the Gembloux reference site, degrees north.
const DefaultLatitude = 50.56

// FAO-56 Penman-Monteith constants for a grass reference surface.
const (
	psychrometric = 0.665    // kPa/degC
	albedo        = 0.23     // grass reference
	stefanBoltz   = 4.903e-9 // MJ K^-4 m^-2 day^-1
	windSpeed     = 2.0      // m/s, assumed when no anemometer data exists
	wattsToMJ     = 0.0864   // W/m2 to MJ/m2/day
	daysPerMonth  = 30.0     // mm/day to mm/month
	radiationWThr = 50.0     // above this the radiation series is taken as W/m2
	solarConstant = 0.082    // MJ m^-2 min^-1
)

// PETInput bundles the monthly series the Penman-Monteith computation needs.
// All series must share one length. Months is optional: when present the
// clear-sky radiation comes from extraterrestrial radiation at the given
// latitude and mid-month solar declination, otherwise from a 1.35 x rs
// approximation.
type PETInput struct {
	Temperature []float64    // degC
	RelHumidity []float64    // percent
	Radiation   []float64    // shortwave, W/m2 or MJ/m2/day
	Months      []time.Month // calendar month per entry, may be nil
	Latitude    float64      // degrees north; zero means the reference site
}

// PotentialEvapotranspiration estimates reference evapotranspiration in
// mm/month from monthly temperature, relative humidity and shortwave
// radiation. Radiation above 50 is interpreted as W/m2 and converted;
// smaller values are taken as MJ/m2/day already. Results are floored at
// zero: a negative Penman-Monteith balance means no atmospheric demand,
// not negative demand.
func PotentialEvapotranspiration(in PETInput) ([]float64, error) {
	n := len(in.Temperature)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty temperature series", domain.ErrInvalidInput)
	}
	if len(in.RelHumidity) != n || len(in.Radiation) != n {
		return nil, fmt.Errorf("%w: series lengths differ (temperature %d, humidity %d, radiation %d)",
			domain.ErrInvalidInput, n, len(in.RelHumidity), len(in.Radiation))
	}
	if in.Months != nil && len(in.Months) != n {
		return nil, fmt.Errorf("%w: month series length %d, want %d", domain.ErrInvalidInput, len(in.Months), n)
	}
	lat := in.Latitude
	if lat == 0 {
		lat = DefaultLatitude
	}

	// One conversion decision for the whole series, keyed on its maximum,
	// so mixed-looking values cannot flip units month to month.
	inWatts := false
	for _, r := range in.Radiation {
		if r > radiationWThr {
			inWatts = true
			break
		}
	}

	pet := make([]float64, n)
	for m := 0; m < n; m++ {
		tc := in.Temperature[m]
		tk := tc + 273.15

		// Tetens saturation vapour pressure and its slope.
		eSat := 0.6108 * math.Exp(17.27*tc/(tc+237.3))
		eAct := eSat * in.RelHumidity[m] / 100
		vpd := eSat - eAct
		delta := 4098 * eSat / ((tc + 237.3) * (tc + 237.3))

		rs := in.Radiation[m]
		if inWatts {
			rs *= wattsToMJ
		}
		rns := (1 - albedo) * rs

		// Cloudiness term: measured over clear-sky radiation. Without
		// calendar months the clear-sky estimate is 1.35 x rs and the
		// ratio collapses to one.
		cloud := 1.0
		if in.Months != nil {
			rso := 0.75 * extraterrestrialRadiation(lat, in.Months[m])
			cloud = 1.35 * rs / rso
		}

		rnl := stefanBoltz * tk * tk * tk * tk *
			(0.34 - 0.14*math.Sqrt(eAct)) * (cloud - 0.35)
		rn := rns - rnl

		// Soil heat flux is negligible at monthly resolution.
		num := 0.408*delta*rn + psychrometric*900/(tc+273)*windSpeed*vpd
		den := delta + psychrometric*(1+0.34*windSpeed)
		pet[m] = math.Max(0, num/den) * daysPerMonth
	}
	return pet, nil
}

// extraterrestrialRadiation returns Ra in MJ/m2/day for the mid-month day at
// the given latitude.
func extraterrestrialRadiation(latitude float64, month time.Month) float64 {
	latRad := latitude * math.Pi / 180
	julian := float64(15 + 30*(int(month)-1))

	declination := 0.409 * math.Sin(2*math.Pi*julian/365-1.39)
	sunset := math.Acos(-math.Tan(latRad) * math.Tan(declination))
	dr := 1 + 0.033*math.Cos(2*math.Pi*julian/365)

	return (24 * 60 / math.Pi) * solarConstant * dr *
		(sunset*math.Sin(latRad)*math.Sin(declination) +
			math.Cos(latRad)*math.Cos(declination)*math.Sin(sunset))
}
