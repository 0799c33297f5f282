// Package report turns archived runs into a markdown briefing: one table
// row per scenario with the carbon stock at the start and end of the
// horizon, plus the ensemble setup behind each run.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Markdown builds the briefing. Runs are ordered by scenario label so the
// output is stable regardless of archive iteration order.
func Markdown(runs []*domain.RunSummary) string {
	var b strings.Builder
	b.WriteString("# Soil organic carbon outlook\n\n")

	if len(runs) == 0 {
		b.WriteString("No completed runs.\n")
		return b.String()
	}

	sorted := make([]*domain.RunSummary, len(runs))
	copy(sorted, runs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Scenario != sorted[j].Scenario {
			return sorted[i].Scenario < sorted[j].Scenario
		}
		return sorted[i].ID < sorted[j].ID
	})

	fmt.Fprintf(&b, "%d run(s).\n\n", len(sorted))
	b.WriteString("| Scenario | Months | SOC start | SOC end | Loss | Spread |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, run := range sorted {
		if len(run.Rows) == 0 {
			fmt.Fprintf(&b, "| %s | 0 | n/a | n/a | n/a | n/a |\n", run.Scenario)
			continue
		}
		// Row zero is the initial state, so a run over n months has n+1
		// rows.
		first := run.Rows[0]
		last := run.Rows[len(run.Rows)-1]
		fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.2f |\n",
			run.Scenario, len(run.Rows)-1,
			first.MeanSOC, last.MeanSOC, last.MeanDelta, last.StdDelta)
	}

	b.WriteString("\nStocks in t C/ha. Loss is the mean drawdown from the starting\n")
	b.WriteString("stock at the end of the horizon (negative loss is a gain), spread\n")
	b.WriteString("its standard deviation across the ensemble.\n")

	// Summaries re-read from bare CSV carry no ensemble metadata; only
	// emit the setup section when at least one run has it.
	var setup []*domain.RunSummary
	for _, run := range sorted {
		if run.Trials > 0 {
			setup = append(setup, run)
		}
	}
	if len(setup) > 0 {
		b.WriteString("\n## Ensemble setup\n\n")
		for _, run := range setup {
			fmt.Fprintf(&b, "- %s: %d trials, seed %d, %d workers, run %s\n",
				run.Scenario, run.Trials, run.Seed, run.Workers,
				run.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	return b.String()
}

// Render pushes the markdown through glamour for terminal display. Callers
// writing to a pipe should print the markdown as is instead.
func Render(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(markdown)
}

// Headline styles a terminal header line in the accent color.
func Headline(text string) string {
	p := termenv.ColorProfile()
	return termenv.String(text).Foreground(p.Color("#34d399")).Bold().String()
}
