package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

func TestSummaryRoundTrip(t *testing.T) {
	rows := domain.Summary{
		{Month: 0, MeanSOC: 41.3, StdSOC: 0, MeanDelta: 0, StdDelta: 0, Samples: 100},
		{Month: 1, MeanSOC: 41.1, StdSOC: 0.21, MeanDelta: 0.2, StdDelta: 0.21, Samples: 100},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, rows); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSummary(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows) {
		t.Fatalf("%d rows, want %d", len(got), len(rows))
	}
	for i, want := range rows {
		want.Samples = 0 // not part of the file layout
		if got[i] != want {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestWriteSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestReadSummary_Errors(t *testing.T) {
	cases := []struct {
		name string
		file string
	}{
		{"missing column", "Month,SOC_mean,SOC_sd,Delta_SOC_mean\n0,41,0,0\n"},
		{"fractional month", "Month,SOC_mean,SOC_sd,Delta_SOC_mean,Delta_SOC_sd\n1.5,41,0,0,0\n"},
		{"header only", "Month,SOC_mean,SOC_sd,Delta_SOC_mean,Delta_SOC_sd\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadSummary(strings.NewReader(tc.file)); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSummaryFileNames(t *testing.T) {
	name := SummaryFileName("8.5_ecofood_ref_50")
	if name != "SOC_paramMC_summary_8.5_ecofood_ref_50.csv" {
		t.Errorf("file name %q", name)
	}

	label, ok := SummaryLabel("results/" + name)
	if !ok || label != "8.5_ecofood_ref_50" {
		t.Errorf("label %q, ok %v", label, ok)
	}

	for _, bad := range []string{"results.csv", "SOC_paramMC_summary_.csv", "DataRothCRun_x.csv"} {
		if _, ok := SummaryLabel(bad); ok {
			t.Errorf("%q parsed as a summary file", bad)
		}
	}
}
