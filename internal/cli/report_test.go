package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/q-beau/NBS-TP/internal/tabular"
	"github.com/q-beau/NBS-TP/pkg/domain"
)

func writeSummaryFixture(t *testing.T, dir, label string) {
	t.Helper()
	rows := domain.Summary{
		{Month: 0, MeanSOC: 41.30, StdSOC: 0, MeanDelta: 0, StdDelta: 0},
		{Month: 1, MeanSOC: 41.05, StdSOC: 0.4, MeanDelta: 0.25, StdDelta: 0.4},
		{Month: 2, MeanSOC: 40.88, StdSOC: 0.5, MeanDelta: 0.42, StdDelta: 0.5},
	}
	f, err := os.Create(filepath.Join(dir, tabular.SummaryFileName(label)))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := tabular.WriteSummary(f, rows); err != nil {
		t.Fatal(err)
	}
}

func TestExecuteReportFromFiles(t *testing.T) {
	resultsDir := t.TempDir()
	writeSummaryFixture(t, resultsDir, "2.6_ref_0")
	writeSummaryFixture(t, resultsDir, "8.5_ref_100")
	// Stray files are ignored.
	writeFile(t, resultsDir, "notes.txt", "scratch\n")

	var out bytes.Buffer
	err := ExecuteReport(context.Background(), ReportOptions{
		ResultsDir: resultsDir,
		Stdout:     &out,
	})
	if err != nil {
		t.Fatalf("ExecuteReport: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "# Soil organic carbon outlook") {
		t.Errorf("missing title:\n%s", got)
	}
	if !strings.Contains(got, "| 2.6_ref_0 | 2 | 41.30 | 40.88 | 0.42 | 0.50 |") {
		t.Errorf("missing summary row:\n%s", got)
	}
	if !strings.Contains(got, "8.5_ref_100") {
		t.Errorf("missing second scenario:\n%s", got)
	}
	// File-sourced summaries carry no ensemble metadata.
	if strings.Contains(got, "Ensemble setup") {
		t.Errorf("unexpected setup section:\n%s", got)
	}
}

func TestExecuteReportEmptyResults(t *testing.T) {
	var out bytes.Buffer
	err := ExecuteReport(context.Background(), ReportOptions{
		ResultsDir: t.TempDir(),
		Stdout:     &out,
	})
	if err != nil {
		t.Fatalf("ExecuteReport: %v", err)
	}
	if !strings.Contains(out.String(), "No completed runs.") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestExecuteReportFromStore(t *testing.T) {
	dataDir := writeScenarioData(t)
	resultsDir := t.TempDir()
	storeDir := t.TempDir()
	cfgPath := writeConfig(t, dataDir, resultsDir, storeDir)

	if err := ExecuteRun(context.Background(), RunOptions{
		ConfigPath: cfgPath,
		Stdout:     &bytes.Buffer{},
	}); err != nil {
		t.Fatalf("ExecuteRun: %v", err)
	}

	var out bytes.Buffer
	err := ExecuteReport(context.Background(), ReportOptions{
		ConfigPath: cfgPath,
		FromStore:  true,
		Stdout:     &out,
	})
	if err != nil {
		t.Fatalf("ExecuteReport: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "8.5_ref_0") {
		t.Errorf("missing scenario:\n%s", got)
	}
	// Archived summaries keep their ensemble metadata.
	if !strings.Contains(got, "16 trials, seed 9") {
		t.Errorf("missing setup line:\n%s", got)
	}
}

func TestExecuteReportFromStoreUnconfigured(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), t.TempDir(), "")

	err := ExecuteReport(context.Background(), ReportOptions{
		ConfigPath: cfgPath,
		FromStore:  true,
		Stdout:     &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "no archive store configured") {
		t.Errorf("err = %v", err)
	}
}

func TestExecuteRuns(t *testing.T) {
	dataDir := writeScenarioData(t)
	resultsDir := t.TempDir()
	storeDir := t.TempDir()
	cfgPath := writeConfig(t, dataDir, resultsDir, storeDir)

	if err := ExecuteRun(context.Background(), RunOptions{
		ConfigPath: cfgPath,
		Stdout:     &bytes.Buffer{},
	}); err != nil {
		t.Fatalf("ExecuteRun: %v", err)
	}

	var out bytes.Buffer
	if err := ExecuteRuns(context.Background(), RunsOptions{ConfigPath: cfgPath, Stdout: &out}); err != nil {
		t.Fatalf("ExecuteRuns: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "RUN") || !strings.Contains(got, "SCENARIO") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "8.5_ref_0") {
		t.Errorf("missing run:\n%s", got)
	}
	if !strings.Contains(got, "12") {
		t.Errorf("missing month count:\n%s", got)
	}
}

func TestExecuteRunsEmptyArchive(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), t.TempDir(), t.TempDir())

	var out bytes.Buffer
	if err := ExecuteRuns(context.Background(), RunsOptions{ConfigPath: cfgPath, Stdout: &out}); err != nil {
		t.Fatalf("ExecuteRuns: %v", err)
	}
	if !strings.Contains(out.String(), "archive is empty") {
		t.Errorf("output:\n%s", out.String())
	}
}
