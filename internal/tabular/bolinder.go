package tabular

import (
	"io"

	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// ReadBolinder parses the Bolinder allocation coefficient table: one row
// per crop with the four relative allocations and four soil-return shares.
func ReadBolinder(r io.Reader) ([]scenario.BolinderRow, error) {
	cr := newReader(r)
	head, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	cols := []string{"Crop", "RP", "RS", "RR", "RE", "SP", "SS", "SR", "SE"}
	idx, err := requireColumns(head, cols...)
	if err != nil {
		return nil, err
	}

	var rows []scenario.BolinderRow
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowError(row, err)
		}

		var vals [8]float64
		for i := 0; i < 8; i++ {
			v, perr := parseFloat(rec[idx[i+1]], cols[i+1])
			if perr != nil {
				return nil, rowError(row, perr)
			}
			vals[i] = v
		}
		rows = append(rows, scenario.BolinderRow{
			Crop: rec[idx[0]],
			RP:   vals[0],
			RS:   vals[1],
			RR:   vals[2],
			RE:   vals[3],
			SP:   vals[4],
			SS:   vals[5],
			SR:   vals[6],
			SE:   vals[7],
		})
	}
	return rows, nil
}
