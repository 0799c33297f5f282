package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/q-beau/NBS-TP/internal/config"
	"github.com/q-beau/NBS-TP/internal/presentation/report"
	"github.com/q-beau/NBS-TP/internal/tabular"
	"github.com/q-beau/NBS-TP/pkg/domain"
)

// ReportOptions carries the report command's flags.
type ReportOptions struct {
	ConfigPath string
	ResultsDir string
	FromStore  bool
	Plain      bool
	Stdout     io.Writer
}

func (o ReportOptions) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

// ExecuteReport renders the markdown briefing, either from the summary CSVs
// in the results directory (default) or from the configured archive
// (--from-store). Output is styled when stdout is a terminal, raw markdown
// otherwise.
func ExecuteReport(ctx context.Context, opts ReportOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.ResultsDir != "" {
		cfg.Paths.Results = opts.ResultsDir
	}

	var runs []*domain.RunSummary
	if opts.FromStore {
		runs, err = loadArchivedRuns(ctx, cfg)
	} else {
		runs, err = loadSummaryFiles(cfg.Paths.Results)
	}
	if err != nil {
		return err
	}

	out := opts.stdout()
	md := report.Markdown(runs)

	if opts.Plain || !writerIsTerminal(out) {
		_, err = io.WriteString(out, md)
		return err
	}
	styled, err := report.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, styled)
	return err
}

// RunsOptions carries the runs command's flags.
type RunsOptions struct {
	ConfigPath string
	Stdout     io.Writer
}

// ExecuteRuns lists every run in the configured archive.
func ExecuteRuns(ctx context.Context, opts RunsOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	runs, err := loadArchivedRuns(ctx, cfg)
	if err != nil {
		return err
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "archive is empty")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSCENARIO\tMONTHS\tTRIALS\tCREATED")
	for _, run := range runs {
		months := 0
		if len(run.Rows) > 0 {
			months = len(run.Rows) - 1
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Scenario, months, run.Trials,
			run.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// loadArchivedRuns pulls every summary out of the configured store.
func loadArchivedRuns(ctx context.Context, cfg config.Config) ([]*domain.RunSummary, error) {
	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: no archive store configured", domain.ErrInvalidInput)
	}
	if closeStore != nil {
		defer closeStore()
	}

	ids, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	runs := make([]*domain.RunSummary, 0, len(ids))
	for _, id := range ids {
		run, err := store.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading run %s: %w", id, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// loadSummaryFiles reads every summary CSV in dir. File-sourced summaries
// carry rows only; scenario and ID come from the file name.
func loadSummaryFiles(dir string) ([]*domain.RunSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	var runs []*domain.RunSummary
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		label, ok := tabular.SummaryLabel(entry.Name())
		if !ok {
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		rows, err := tabular.ReadSummary(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		runs = append(runs, &domain.RunSummary{ID: label, Scenario: label, Rows: rows})
	}
	return runs, nil
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
