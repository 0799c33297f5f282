package scenario

import (
	"fmt"
	"time"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// YearMonth identifies one calendar month. It is the resolution every input
// table works at; days never appear.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth reads the "2025-03" layout used by the crop calendars.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: bad year-month %q", domain.ErrInvalidInput, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// String renders the month in the same "2025-03" layout.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// ordinal maps the month onto a single integer axis so that ordering and
// distance reduce to integer arithmetic.
func (ym YearMonth) ordinal() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// Before reports whether ym falls strictly before other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.ordinal() < other.ordinal()
}

// After reports whether ym falls strictly after other.
func (ym YearMonth) After(other YearMonth) bool {
	return ym.ordinal() > other.ordinal()
}

// AddMonths returns the month n steps later (or earlier for negative n).
func (ym YearMonth) AddMonths(n int) YearMonth {
	o := ym.ordinal() + n
	return YearMonth{Year: o / 12, Month: time.Month(o%12 + 1)}
}

// MonthsBetween returns the inclusive number of months from first to last,
// so MonthsBetween(m, m) is 1. The count is negative when last precedes
// first.
func MonthsBetween(first, last YearMonth) int {
	return last.ordinal() - first.ordinal() + 1
}
