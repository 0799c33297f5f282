package scenario

import (
	"fmt"
	"time"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// DefaultManureAmount is the farmyard-manure application in t C/ha, the
// rotation average of the reference site.
const DefaultManureAmount = 2.69

// Spec identifies one scenario: a warming pathway label ("2.6", "4.5",
// "8.5"), the percentage of straw returned to the soil, and a rotation
// name matching a crop calendar.
type Spec struct {
	Warming     string
	StrawReturn int
	Rotation    string
}

// Label names the scenario the way result files are keyed.
func (s Spec) Label() string {
	return fmt.Sprintf("%s_%s_%d", s.Warming, s.Rotation, s.StrawReturn)
}

// Grid returns the full cross product of warming, straw-return and rotation
// levels, warming outermost.
func Grid(warming []string, straw []int, rotations []string) []Spec {
	specs := make([]Spec, 0, len(warming)*len(straw)*len(rotations))
	for _, w := range warming {
		for _, s := range straw {
			for _, r := range rotations {
				specs = append(specs, Spec{Warming: w, StrawReturn: s, Rotation: r})
			}
		}
	}
	return specs
}

// Source supplies the raw tables a Builder consumes. Implementations parse
// files; the Builder never touches the filesystem.
type Source interface {
	// ClimateTable returns one climate variable (VarTemperature,
	// VarPrecipitation, VarRelHumidity or VarNetRadiation) for a warming
	// pathway.
	ClimateTable(variable, warming string) (ClimateTable, error)

	// CropCalendar returns the cultivation periods of a rotation.
	CropCalendar(rotation string) (Calendar, error)

	// Bolinder returns the allocation coefficient table.
	Bolinder() ([]BolinderRow, error)

	// Vegetation returns the site's biomass survey.
	Vegetation() ([]VegetationRecord, error)
}

// Builder assembles model inputs for scenarios against one data source.
type Builder struct {
	src            Source
	latitude       float64
	manureAmount   float64
	manureCrop     CropCode
	clearSkyMonths bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLatitude sets the site latitude for the evapotranspiration estimate.
func WithLatitude(deg float64) BuilderOption {
	return func(b *Builder) { b.latitude = deg }
}

// WithManure overrides the application amount (t C/ha) and the crop whose
// harvests the schedule follows. A zero amount disables manure entirely.
func WithManure(amount float64, crop CropCode) BuilderOption {
	return func(b *Builder) {
		b.manureAmount = amount
		b.manureCrop = crop
	}
}

// WithClearSkyMonths bases the evapotranspiration estimate on the
// latitude-dependent clear-sky radiation of each calendar month instead of
// the 1.35 x rs approximation.
func WithClearSkyMonths() BuilderOption {
	return func(b *Builder) { b.clearSkyMonths = true }
}

// NewBuilder creates a Builder over the given source with reference-site
// defaults: Gembloux latitude, manure after every second winter wheat.
func NewBuilder(src Source, opts ...BuilderOption) *Builder {
	b := &Builder{
		src:          src,
		latitude:     DefaultLatitude,
		manureAmount: DefaultManureAmount,
		manureCrop:   WinterWheat,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the complete input table for one scenario: the crop
// calendar fixes the simulated months, climate tables supply weather,
// Penman-Monteith turns it into evaporative demand, and the yield table
// with the scenario's straw policy fixes the carbon inputs.
func (b *Builder) Build(spec Spec) (domain.RunInput, error) {
	cal, err := b.src.CropCalendar(spec.Rotation)
	if err != nil {
		return domain.RunInput{}, fmt.Errorf("rotation %q: %w", spec.Rotation, err)
	}
	start, months, err := cal.Span()
	if err != nil {
		return domain.RunInput{}, fmt.Errorf("rotation %q: %w", spec.Rotation, err)
	}
	crops, err := cal.Expand()
	if err != nil {
		return domain.RunInput{}, fmt.Errorf("rotation %q: %w", spec.Rotation, err)
	}

	if spec.StrawReturn < 0 || spec.StrawReturn > 100 {
		return domain.RunInput{}, fmt.Errorf("%w: straw return %d%% outside [0,100]",
			domain.ErrInvalidInput, spec.StrawReturn)
	}
	coeffs, err := b.src.Bolinder()
	if err != nil {
		return domain.RunInput{}, err
	}
	coeffs = ApplyStrawReturn(coeffs, float64(spec.StrawReturn)/100)

	veg, err := b.src.Vegetation()
	if err != nil {
		return domain.RunInput{}, err
	}
	yields, err := BuildYieldTable(veg, coeffs)
	if err != nil {
		return domain.RunInput{}, err
	}

	// Crops without a yield entry (bare soil included) contribute nothing.
	perCrop := make([]float64, months)
	for m, c := range crops {
		if row, ok := yields[c]; ok {
			perCrop[m] = row.CarbonInput
		}
	}
	plant := HarvestAllocation(perCrop)

	manure := make(domain.CarbonSeries, months)
	if b.manureAmount > 0 {
		manure = ManureSchedule(crops, b.manureAmount, b.manureCrop)
	}

	temp, err := b.climateSeries(VarTemperature, spec.Warming, start, months)
	if err != nil {
		return domain.RunInput{}, err
	}
	precip, err := b.climateSeries(VarPrecipitation, spec.Warming, start, months)
	if err != nil {
		return domain.RunInput{}, err
	}
	humidity, err := b.climateSeries(VarRelHumidity, spec.Warming, start, months)
	if err != nil {
		return domain.RunInput{}, err
	}
	radiation, err := b.climateSeries(VarNetRadiation, spec.Warming, start, months)
	if err != nil {
		return domain.RunInput{}, err
	}

	// The default leaves the month series empty, matching the ALARO
	// processing chain and keeping scenarios comparable with previously
	// published runs.
	var petMonths []time.Month
	if b.clearSkyMonths {
		petMonths = make([]time.Month, months)
		for m := range petMonths {
			petMonths[m] = start.AddMonths(m).Month
		}
	}
	evap, err := PotentialEvapotranspiration(PETInput{
		Temperature: temp,
		RelHumidity: humidity,
		Radiation:   radiation,
		Months:      petMonths,
		Latitude:    b.latitude,
	})
	if err != nil {
		return domain.RunInput{}, err
	}

	cover := CoverSequence(crops)
	climate := make(domain.ClimateSeries, months)
	for m := range climate {
		climate[m] = domain.ClimateRecord{
			Temperature:   temp[m],
			Precipitation: precip[m],
			Evaporation:   evap[m],
			Cover:         cover[m],
		}
	}

	in := domain.RunInput{
		Scenario:    spec.Label(),
		Climate:     climate,
		PlantInput:  plant,
		ManureInput: manure,
	}
	if err := in.Validate(); err != nil {
		return domain.RunInput{}, fmt.Errorf("scenario %s: %w", spec.Label(), err)
	}
	return in, nil
}

func (b *Builder) climateSeries(variable, warming string, start YearMonth, months int) ([]float64, error) {
	table, err := b.src.ClimateTable(variable, warming)
	if err != nil {
		return nil, fmt.Errorf("climate %s RCP %s: %w", variable, warming, err)
	}
	series, err := table.MonthlySeries(start, months)
	if err != nil {
		return nil, fmt.Errorf("climate %s RCP %s: %w", variable, warming, err)
	}
	return series, nil
}
