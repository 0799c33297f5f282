package scenario

import (
	"errors"
	"testing"
	"time"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

func ym(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

func TestCalendarExpand_FillsGapsWithBareSoil(t *testing.T) {
	cal := Calendar{
		{Crop: WinterWheat, Start: ym(2025, time.October), End: ym(2026, time.July)},
		// Gap: 2026-08 .. 2026-09.
		{Crop: CoverCrop, Start: ym(2026, time.October), End: ym(2027, time.February)},
	}

	crops, err := cal.Expand()
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(crops) != MonthsBetween(ym(2025, time.October), ym(2027, time.February)) {
		t.Fatalf("expanded to %d months", len(crops))
	}

	start, _, _ := cal.Span()
	byMonth := func(y int, m time.Month) CropCode {
		return crops[MonthsBetween(start, ym(y, m))-1]
	}
	if got := byMonth(2025, time.October); got != WinterWheat {
		t.Errorf("first month = %v, want winter wheat", got)
	}
	if got := byMonth(2026, time.July); got != WinterWheat {
		t.Errorf("harvest month = %v, want winter wheat", got)
	}
	for _, m := range []time.Month{time.August, time.September} {
		if got := byMonth(2026, m); got != BareSoil {
			t.Errorf("gap month 2026-%02d = %v, want bare soil", m, got)
		}
	}
	if got := byMonth(2026, time.October); got != CoverCrop {
		t.Errorf("cover month = %v, want cover crop", got)
	}
}

func TestCalendarValidate(t *testing.T) {
	if err := (Calendar{}).Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty calendar accepted, err = %v", err)
	}

	backwards := Calendar{{Crop: Maize, Start: ym(2026, time.May), End: ym(2026, time.April)}}
	if err := backwards.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("backwards entry accepted, err = %v", err)
	}

	unordered := Calendar{
		{Crop: Maize, Start: ym(2026, time.May), End: ym(2026, time.October)},
		{Crop: Potato, Start: ym(2025, time.April), End: ym(2025, time.September)},
	}
	if err := unordered.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unordered calendar accepted, err = %v", err)
	}
}

func TestCalendarDuplicate_ShiftsAndFillsInterCycleGaps(t *testing.T) {
	cal := Calendar{
		{Crop: WinterWheat, Start: ym(2025, time.October), End: ym(2026, time.July)},
		{Crop: CoverCrop, Start: ym(2026, time.September), End: ym(2027, time.March)},
	}

	out := cal.Duplicate(2, 8)
	if len(out) != 6 {
		t.Fatalf("duplicated calendar has %d entries, want 6", len(out))
	}

	// Second cycle starts eight years after the first.
	if got := out[2].Start; got != ym(2033, time.October) {
		t.Errorf("second cycle starts %v, want 2033-10", got)
	}
	if out[2].Rotation != "Rotation 2" || out[0].Rotation != "Rotation 1" {
		t.Errorf("rotation labels = %q, %q", out[0].Rotation, out[2].Rotation)
	}

	// The gap inside a cycle (2026-08) and the gap between cycles
	// (2027-04 .. 2033-09) are both closed by extending the earlier entry.
	if got := out[0].End; got != ym(2026, time.August) {
		t.Errorf("first entry extended to %v, want 2026-08", got)
	}
	if got := out[1].End; got != ym(2033, time.September) {
		t.Errorf("cycle-closing entry extended to %v, want 2033-09", got)
	}

	// Originals stay untouched.
	if cal[0].End != ym(2026, time.July) || cal[1].End != ym(2027, time.March) {
		t.Error("Duplicate mutated its input")
	}

	// The combined calendar expands without a single bare gap month.
	crops, err := out.Expand()
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	for m, c := range crops {
		if c == BareSoil {
			t.Fatalf("gap survived duplication at month offset %d", m)
		}
	}
}

func TestBuildCalendarRoundTrip(t *testing.T) {
	crops := []CropCode{
		WinterWheat, WinterWheat, WinterWheat,
		BareSoil,
		Maize, Maize,
		WinterWheat,
	}
	start := ym(2025, time.March)

	cal := BuildCalendar(crops, start)
	if len(cal) != 4 {
		t.Fatalf("calendar has %d periods, want 4", len(cal))
	}
	if cal[0].Start != start || cal[0].End != ym(2025, time.May) {
		t.Errorf("first period %v..%v", cal[0].Start, cal[0].End)
	}

	back, err := cal.Expand()
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(back) != len(crops) {
		t.Fatalf("round trip changed length: %d != %d", len(back), len(crops))
	}
	for m := range crops {
		if back[m] != crops[m] {
			t.Errorf("month %d: %v != %v", m, back[m], crops[m])
		}
	}
}

func TestCoverSequence(t *testing.T) {
	crops := []CropCode{BareSoil, WinterWheat, CoverCrop, BareSoil}
	cover := CoverSequence(crops)

	want := []float64{1.0, 0.6, 0.6, 1.0}
	for m := range want {
		if cover[m] != want[m] {
			t.Errorf("cover[%d] = %v, want %v", m, cover[m], want[m])
		}
	}
}

func TestCropByName(t *testing.T) {
	code, ok := CropByName("Winter Wheat")
	if !ok || code != WinterWheat {
		t.Errorf("CropByName(Winter Wheat) = %v, %v", code, ok)
	}
	if _, ok := CropByName("Triticale"); ok {
		t.Error("unknown species resolved")
	}
	if got := CropCode(99).String(); got != "crop(99)" {
		t.Errorf("unknown code renders %q", got)
	}
}
