package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// RunInputFileName names the prepared input table for a scenario label.
func RunInputFileName(label string) string {
	return fmt.Sprintf("DataRothCRun_%s.csv", label)
}

// WriteRunInput emits a prepared input table in the DataRothCRun layout:
// one row per month with temperature, evaporative demand, precipitation,
// manure, plant carbon and soil cover, plus the scenario label. The crop
// code column is included when crops is non-nil and must then cover the
// same months.
func WriteRunInput(w io.Writer, in domain.RunInput, crops []scenario.CropCode) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if crops != nil && len(crops) != in.Months() {
		return fmt.Errorf("%w: %d crop codes for %d months", domain.ErrInvalidInput, len(crops), in.Months())
	}

	cw := csv.NewWriter(w)
	head := []string{"T", "Evap", "P", "FYM", "AGB", "SoilCover"}
	if crops != nil {
		head = append(head, "Crop")
	}
	head = append(head, "Scenario")
	if err := cw.Write(head); err != nil {
		return err
	}

	for m := 0; m < in.Months(); m++ {
		rec := []string{
			formatFloat(in.Climate[m].Temperature),
			formatFloat(in.Climate[m].Evaporation),
			formatFloat(in.Climate[m].Precipitation),
			formatFloat(in.ManureInput[m]),
			formatFloat(in.PlantInput[m]),
			formatFloat(in.Climate[m].Cover),
		}
		if crops != nil {
			rec = append(rec, strconv.Itoa(int(crops[m])))
		}
		rec = append(rec, in.Scenario)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRunInput parses a prepared input table. The crop column is ignored
// (soil cover alone drives the model) and the scenario label comes from the
// first row when the column exists; both are optional so hand-prepared
// tables load too.
func ReadRunInput(r io.Reader) (domain.RunInput, error) {
	cr := newReader(r)
	head, err := readHeader(cr)
	if err != nil {
		return domain.RunInput{}, err
	}
	cols := []string{"T", "Evap", "P", "FYM", "AGB", "SoilCover"}
	idx, err := requireColumns(head, cols...)
	if err != nil {
		return domain.RunInput{}, err
	}
	scenarioCol := columnIndex(head, "Scenario")

	var in domain.RunInput
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.RunInput{}, rowError(row, err)
		}

		var vals [6]float64
		for i, col := range cols {
			v, perr := parseFloat(rec[idx[i]], col)
			if perr != nil {
				return domain.RunInput{}, rowError(row, perr)
			}
			vals[i] = v
		}
		in.Climate = append(in.Climate, domain.ClimateRecord{
			Temperature:   vals[0],
			Evaporation:   vals[1],
			Precipitation: vals[2],
			Cover:         vals[5],
		})
		in.ManureInput = append(in.ManureInput, vals[3])
		in.PlantInput = append(in.PlantInput, vals[4])
		if scenarioCol >= 0 && in.Scenario == "" {
			in.Scenario = rec[scenarioCol]
		}
	}

	if err := in.Validate(); err != nil {
		return domain.RunInput{}, err
	}
	return in, nil
}
