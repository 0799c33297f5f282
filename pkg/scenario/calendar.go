package scenario

import (
	"fmt"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// CropCode identifies what occupies the field during a month. The numeric
// values match the codes used by the crop-calendar and yield tables.
type CropCode int

const (
	BareSoil CropCode = iota + 1
	CoverCrop
	GreenDwarfBean
	Maize
	Potato
	SugarBeet
	WinterWheat
	Rapeseed
	Cameline
	Faba
	Pea
	Oat
)

// cropNames maps codes to the species labels used by the vegetation and
// Bolinder tables. Spelling follows those tables, quirks included.
var cropNames = map[CropCode]string{
	BareSoil:       "Bare soil",
	CoverCrop:      "Cover crop",
	GreenDwarfBean: "Green dwarf bean",
	Maize:          "Maize",
	Potato:         "Potato",
	SugarBeet:      "Sugar beet",
	WinterWheat:    "Winter Wheat",
	Rapeseed:       "Rapeseed",
	Cameline:       "Cameline",
	Faba:           "Faba",
	Pea:            "Pea",
	Oat:            "Oat",
}

// String returns the species label, or a numeric form for unknown codes.
func (c CropCode) String() string {
	if name, ok := cropNames[c]; ok {
		return name
	}
	return fmt.Sprintf("crop(%d)", int(c))
}

// CropByName resolves a species label back to its code.
func CropByName(name string) (CropCode, bool) {
	for code, n := range cropNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// Soil-cover retainment factors. RothC halves decomposition under a growing
// crop; bare months apply no reduction.
const (
	coverBare    = 1.0
	coverCropped = 0.6
)

// CalendarEntry is one cultivation period: a crop occupying the field from
// Start to End, both inclusive.
type CalendarEntry struct {
	Crop     CropCode
	Start    YearMonth
	End      YearMonth
	Rotation string
}

// Calendar lists cultivation periods in chronological order. Periods may
// leave gaps; expansion fills them with bare soil.
type Calendar []CalendarEntry

// Validate checks ordering inside and between entries.
func (c Calendar) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: empty crop calendar", domain.ErrInvalidInput)
	}
	for i, e := range c {
		if e.End.Before(e.Start) {
			return fmt.Errorf("%w: calendar entry %d ends %s before it starts %s",
				domain.ErrInvalidInput, i, e.End, e.Start)
		}
		if i > 0 && e.Start.Before(c[i-1].Start) {
			return fmt.Errorf("%w: calendar entry %d starts %s before entry %d",
				domain.ErrInvalidInput, i, e.Start, i-1)
		}
	}
	return nil
}

// Span returns the first simulated month and the inclusive month count, from
// the first entry's start to the last entry's end.
func (c Calendar) Span() (YearMonth, int, error) {
	if err := c.Validate(); err != nil {
		return YearMonth{}, 0, err
	}
	start := c[0].Start
	months := MonthsBetween(start, c[len(c)-1].End)
	if months < 1 {
		return YearMonth{}, 0, fmt.Errorf("%w: calendar spans %d months", domain.ErrInvalidInput, months)
	}
	return start, months, nil
}

// Expand resolves the calendar to one crop code per month over its span.
// A month covered by several entries takes the earliest entry; a month
// covered by none becomes bare soil.
func (c Calendar) Expand() ([]CropCode, error) {
	start, months, err := c.Span()
	if err != nil {
		return nil, err
	}

	crops := make([]CropCode, months)
	for m := range crops {
		ym := start.AddMonths(m)
		crops[m] = BareSoil
		for _, e := range c {
			if !ym.Before(e.Start) && !ym.After(e.End) {
				crops[m] = e.Crop
				break
			}
		}
	}
	return crops, nil
}

// Duplicate appends copies shifted forward by cycleYears each, then extends
// every entry that does not touch its successor so the combined calendar has
// no gaps between cycles. The original entries are not modified.
func (c Calendar) Duplicate(copies, cycleYears int) Calendar {
	out := make(Calendar, 0, len(c)*(copies+1))
	for i := 0; i <= copies; i++ {
		shift := 12 * cycleYears * i
		rotation := fmt.Sprintf("Rotation %d", i+1)
		for _, e := range c {
			out = append(out, CalendarEntry{
				Crop:     e.Crop,
				Start:    e.Start.AddMonths(shift),
				End:      e.End.AddMonths(shift),
				Rotation: rotation,
			})
		}
	}

	for i := 0; i < len(out)-1; i++ {
		if gap := MonthsBetween(out[i].End, out[i+1].Start) - 2; gap > 0 {
			out[i].End = out[i+1].Start.AddMonths(-1)
		}
	}
	return out
}

// BuildCalendar groups a monthly crop sequence into cultivation periods,
// the inverse of Expand.
func BuildCalendar(crops []CropCode, start YearMonth) Calendar {
	var cal Calendar
	for i := 0; i < len(crops); {
		j := i
		for j+1 < len(crops) && crops[j+1] == crops[i] {
			j++
		}
		cal = append(cal, CalendarEntry{
			Crop:  crops[i],
			Start: start.AddMonths(i),
			End:   start.AddMonths(j),
		})
		i = j + 1
	}
	return cal
}

// CoverSequence maps monthly crop codes to the soil-cover retainment factor:
// no reduction for bare months, the cropped factor otherwise.
func CoverSequence(crops []CropCode) []float64 {
	cover := make([]float64, len(crops))
	for m, c := range crops {
		if c == BareSoil {
			cover[m] = coverBare
		} else {
			cover[m] = coverCropped
		}
	}
	return cover
}
