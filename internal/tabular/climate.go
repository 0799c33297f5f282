package tabular

import (
	"fmt"
	"io"
	"time"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// ReadClimateTable parses one ALARO climate export: Year and Month columns
// plus the named variable column, one row per calendar month.
func ReadClimateTable(r io.Reader, variable string) (scenario.ClimateTable, error) {
	cr := newReader(r)
	head, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(head, "Year", "Month", variable)
	if err != nil {
		return nil, err
	}

	table := make(scenario.ClimateTable)
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowError(row, err)
		}

		year, perr := parseInt(rec[idx[0]], "Year")
		if perr != nil {
			return nil, rowError(row, perr)
		}
		month, perr := parseInt(rec[idx[1]], "Month")
		if perr != nil {
			return nil, rowError(row, perr)
		}
		if month < 1 || month > 12 {
			return nil, rowError(row, fmt.Errorf("column Month: %d outside 1..12", month))
		}
		v, perr := parseFloat(rec[idx[2]], variable)
		if perr != nil {
			return nil, rowError(row, perr)
		}

		key := scenario.YearMonth{Year: year, Month: time.Month(month)}
		if _, dup := table[key]; dup {
			return nil, rowError(row, fmt.Errorf("duplicate entry for %s", key))
		}
		table[key] = v
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: climate table has no rows", domain.ErrInvalidInput)
	}
	return table, nil
}
