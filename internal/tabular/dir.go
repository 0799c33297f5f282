package tabular

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/scenario"
)

// File naming inside a scenario data directory.
const (
	climateFilePattern  = "ALARO_%s_RCP-%s.csv"
	calendarFilePattern = "crop_calendar_%s.csv"
	bolinderFile        = "CoeffBolinder.csv"
	vegetationFile      = "BE-Lon_vegetation data.csv"
)

// climateColumns maps the short variable names to the column labels of the
// ALARO exports.
var climateColumns = map[string]string{
	scenario.VarTemperature:   "Temperature_C",
	scenario.VarPrecipitation: "Precipitation_mm",
	scenario.VarRelHumidity:   "RelHumidity_%",
	scenario.VarNetRadiation:  "NetRad_Wm-2",
}

// Dir serves scenario source tables from a data directory laid out like the
// site dataset: one ALARO export per climate variable and warming pathway,
// one crop calendar per rotation, the Bolinder coefficient table and the
// vegetation survey exported to CSV.
type Dir struct {
	path string
}

var _ scenario.Source = Dir{}

// NewDir wraps a data directory. The directory is not touched until a
// table is requested.
func NewDir(path string) Dir {
	return Dir{path: path}
}

// ClimateTable implements scenario.Source.
func (d Dir) ClimateTable(variable, warming string) (scenario.ClimateTable, error) {
	column, ok := climateColumns[variable]
	if !ok {
		return nil, fmt.Errorf("%w: unknown climate variable %q", domain.ErrInvalidInput, variable)
	}
	name := fmt.Sprintf(climateFilePattern, variable, warming)
	f, err := d.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := ReadClimateTable(f, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return table, nil
}

// CropCalendar implements scenario.Source.
func (d Dir) CropCalendar(rotation string) (scenario.Calendar, error) {
	name := fmt.Sprintf(calendarFilePattern, rotation)
	f, err := d.open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cal, err := ReadCropCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cal, nil
}

// Bolinder implements scenario.Source.
func (d Dir) Bolinder() ([]scenario.BolinderRow, error) {
	f, err := d.open(bolinderFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadBolinder(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", bolinderFile, err)
	}
	return rows, nil
}

// Vegetation implements scenario.Source.
func (d Dir) Vegetation() ([]scenario.VegetationRecord, error) {
	f, err := d.open(vegetationFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ReadVegetation(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vegetationFile, err)
	}
	return records, nil
}

func (d Dir) open(name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(d.path, name))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}
