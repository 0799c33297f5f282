package tabular

import (
	"fmt"
	"io"

	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// ReadCropCalendar parses a rotation's cultivation periods: crop code and
// inclusive Start_Date / End_Date months. A Rotation label column is kept
// when present; the Crop_Name column is redundant with the code and
// ignored.
func ReadCropCalendar(r io.Reader) (scenario.Calendar, error) {
	cr := newReader(r)
	head, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(head, "Crop", "Start_Date", "End_Date")
	if err != nil {
		return nil, err
	}
	rotCol := columnIndex(head, "Rotation")

	var cal scenario.Calendar
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowError(row, err)
		}

		code, perr := parseInt(rec[idx[0]], "Crop")
		if perr != nil {
			return nil, rowError(row, perr)
		}
		start, perr := scenario.ParseYearMonth(rec[idx[1]])
		if perr != nil {
			return nil, fmt.Errorf("row %d: %w", row, perr)
		}
		end, perr := scenario.ParseYearMonth(rec[idx[2]])
		if perr != nil {
			return nil, fmt.Errorf("row %d: %w", row, perr)
		}

		entry := scenario.CalendarEntry{
			Crop:  scenario.CropCode(code),
			Start: start,
			End:   end,
		}
		if rotCol >= 0 {
			entry.Rotation = rec[rotCol]
		}
		cal = append(cal, entry)
	}

	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return cal, nil
}
