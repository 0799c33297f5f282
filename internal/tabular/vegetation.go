package tabular

import (
	"io"
	"strings"

	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// Vegetation survey column labels, as exported from the site workbook.
const (
	colSpecies   = "Crop species"
	colHarvested = "Harvested biomass_total_avg (t/ha)"
	colTotalDry  = "Total_dry_biomass_avg (t/ha)"
)

// ReadVegetation parses the vegetation survey. Empty biomass cells read as
// zero; the survey leaves harvested biomass blank for crops that are
// terminated instead of harvested.
func ReadVegetation(r io.Reader) ([]scenario.VegetationRecord, error) {
	cr := newReader(r)
	head, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(head, colSpecies, colHarvested, colTotalDry)
	if err != nil {
		return nil, err
	}

	var records []scenario.VegetationRecord
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowError(row, err)
		}

		harvested, perr := parseOptionalFloat(rec[idx[1]], colHarvested)
		if perr != nil {
			return nil, rowError(row, perr)
		}
		totalDry, perr := parseOptionalFloat(rec[idx[2]], colTotalDry)
		if perr != nil {
			return nil, rowError(row, perr)
		}
		records = append(records, scenario.VegetationRecord{
			Species:          strings.TrimSpace(rec[idx[0]]),
			HarvestedBiomass: harvested,
			TotalDryBiomass:  totalDry,
		})
	}
	return records, nil
}

func parseOptionalFloat(field, column string) (float64, error) {
	s := strings.TrimSpace(field)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	return parseFloat(s, column)
}
