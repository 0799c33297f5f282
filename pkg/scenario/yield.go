package scenario

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// carbonContent converts dry biomass to carbon mass.
const carbonContent = 0.44

// missingStdFraction substitutes for species with a single biomass reading,
// where no spread can be estimated.
const missingStdFraction = 0.10

// BolinderRow carries the Bolinder et al. (2007) allocation coefficients for
// one crop: the relative biomass of product, straw, roots and extra-root
// material, and the fraction of each that stays in the soil.
type BolinderRow struct {
	Crop string

	// Relative allocation between plant parts.
	RP float64 // product
	RS float64 // straw / secondary residue
	RR float64 // roots
	RE float64 // extra-root material

	// Soil-return share per part.
	SP float64 // product left on field
	SS float64 // straw returned
	SR float64 // roots remaining
	SE float64 // extra-root remaining
}

// ApplyStrawReturn returns a copy of the coefficient table with the
// winter-wheat straw share set to the given returned fraction. The straw
// policy is the only coefficient a management scenario changes.
func ApplyStrawReturn(coeffs []BolinderRow, fraction float64) []BolinderRow {
	out := make([]BolinderRow, len(coeffs))
	copy(out, coeffs)
	for i := range out {
		if out[i].Crop == WinterWheat.String() {
			out[i].SS = fraction
		}
	}
	return out
}

// VegetationRecord is one field reading from the site's vegetation survey:
// harvested biomass for the main crops, and total dry biomass used for the
// cover-crop estimate.
type VegetationRecord struct {
	Species          string
	HarvestedBiomass float64 // t/ha
	TotalDryBiomass  float64 // t/ha
}

// YieldRow summarizes one crop: mean and spread of its carbon yield and the
// seasonal carbon input to soil after Bolinder allocation.
type YieldRow struct {
	Species     string
	Crop        CropCode
	MeanYield   float64 // t C/ha
	StdYield    float64 // t C/ha
	CarbonInput float64 // Cin, t C/ha per cultivation period
}

// supplementaryYields covers crops grown in the alternative rotations but
// absent from the site survey. Values are literature carbon yields.
var supplementaryYields = []YieldRow{
	{Species: "Rapeseed", MeanYield: 3, StdYield: 0.3},
	{Species: "Cameline", MeanYield: 1.5, StdYield: 0.15},
	{Species: "Faba", MeanYield: 3.0, StdYield: 0.3},
	{Species: "Oat", MeanYield: 6.8, StdYield: 0.7},
	{Species: "Pea", MeanYield: 3.0, StdYield: 0.3},
}

// BuildYieldTable derives per-crop carbon inputs from the vegetation survey
// and a Bolinder coefficient table, keyed by crop code.
//
// Harvested biomass is averaged per species; the cover-crop entry instead
// averages the final total-dry-biomass reading of each consecutive mustard
// block, since mustard is terminated rather than harvested. Biomass becomes
// carbon at 44 percent, species with one reading get a 10 percent spread,
// and the seasonal input follows Bolinder:
//
//	Cin = Cp*SP + (RR/RP)*Cp*SR + (RS/RP)*Cp*SS + (RE/RP)*Cp*SE
//
// Species without a coefficient row are dropped, matching an inner join of
// the two tables.
func BuildYieldTable(veg []VegetationRecord, coeffs []BolinderRow) (map[CropCode]YieldRow, error) {
	if len(veg) == 0 {
		return nil, fmt.Errorf("%w: empty vegetation survey", domain.ErrInvalidInput)
	}

	type acc struct {
		values []float64
	}
	bySpecies := make(map[string]*acc)
	order := []string{}
	for _, r := range veg {
		a, ok := bySpecies[r.Species]
		if !ok {
			a = &acc{}
			bySpecies[r.Species] = a
			order = append(order, r.Species)
		}
		a.values = append(a.values, r.HarvestedBiomass)
	}

	rows := []YieldRow{}
	for _, species := range order {
		mean, std := meanAndStd(bySpecies[species].values)
		if mean == 0 {
			continue
		}
		rows = append(rows, YieldRow{
			Species:   species,
			MeanYield: mean * carbonContent,
			StdYield:  std * carbonContent,
		})
	}

	if finals := mustardBlockFinals(veg); len(finals) > 0 {
		mean, std := meanAndStd(finals)
		rows = append(rows, YieldRow{
			Species:   CoverCrop.String(),
			MeanYield: mean * carbonContent,
			StdYield:  std * carbonContent,
		})
	}

	rows = append(rows, supplementaryYields...)

	byCrop := make(map[string]BolinderRow, len(coeffs))
	for _, c := range coeffs {
		byCrop[c.Crop] = c
	}

	table := make(map[CropCode]YieldRow)
	for _, row := range rows {
		if row.StdYield == 0 {
			row.StdYield = row.MeanYield * missingStdFraction
		}
		code, ok := CropByName(row.Species)
		if !ok {
			continue
		}
		c, ok := byCrop[row.Species]
		if !ok {
			continue
		}
		if c.RP == 0 {
			return nil, fmt.Errorf("%w: zero product allocation for %s", domain.ErrInvalidInput, row.Species)
		}

		cp := row.MeanYield
		row.Crop = code
		row.CarbonInput = cp*c.SP + (c.RR/c.RP)*cp*c.SR + (c.RS/c.RP)*cp*c.SS + (c.RE/c.RP)*cp*c.SE
		table[code] = row
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no species shared between survey and coefficient table", domain.ErrInvalidInput)
	}
	return table, nil
}

// mustardBlockFinals picks the total-dry-biomass reading that closes each
// consecutive run of mustard records. The final reading is the standing
// biomass at termination, which is what enters the soil.
func mustardBlockFinals(veg []VegetationRecord) []float64 {
	var finals []float64
	for i, r := range veg {
		if r.Species != "Mustard" {
			continue
		}
		if i == len(veg)-1 || veg[i+1].Species != "Mustard" {
			finals = append(finals, r.TotalDryBiomass)
		}
	}
	return finals
}

// meanAndStd returns the mean and sample standard deviation; a single value
// has zero spread rather than the undefined value gonum reports.
func meanAndStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	if len(xs) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(xs, nil)
}
