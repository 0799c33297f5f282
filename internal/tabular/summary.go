package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

const summaryPrefix = "SOC_paramMC_summary_"

// SummaryFileName names the results file for a scenario label.
func SummaryFileName(label string) string {
	return summaryPrefix + label + ".csv"
}

// SummaryLabel recovers the scenario label from a results file name or
// path, reporting false for files that are not summaries.
func SummaryLabel(name string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(name), ".csv")
	label, ok := strings.CutPrefix(base, summaryPrefix)
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

// summaryColumns is the file layout shared with previously published runs.
var summaryColumns = []string{"Month", "SOC_mean", "SOC_sd", "Delta_SOC_mean", "Delta_SOC_sd"}

// WriteSummary emits the per-month ensemble statistics.
func WriteSummary(w io.Writer, rows domain.Summary) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: empty summary", domain.ErrInvalidInput)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Month),
			formatFloat(r.MeanSOC),
			formatFloat(r.StdSOC),
			formatFloat(r.MeanDelta),
			formatFloat(r.StdDelta),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSummary parses a results file. The sample count is not part of the
// file layout and reads back as zero.
func ReadSummary(r io.Reader) (domain.Summary, error) {
	cr := newReader(r)
	head, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(head, summaryColumns...)
	if err != nil {
		return nil, err
	}

	var rows domain.Summary
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rowError(row, err)
		}

		month, perr := parseInt(rec[idx[0]], summaryColumns[0])
		if perr != nil {
			return nil, rowError(row, perr)
		}
		var vals [4]float64
		for i := 0; i < 4; i++ {
			v, perr := parseFloat(rec[idx[i+1]], summaryColumns[i+1])
			if perr != nil {
				return nil, rowError(row, perr)
			}
			vals[i] = v
		}
		rows = append(rows, domain.SummaryRow{
			Month:     month,
			MeanSOC:   vals[0],
			StdSOC:    vals[1],
			MeanDelta: vals[2],
			StdDelta:  vals[3],
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: summary has no rows", domain.ErrInvalidInput)
	}
	return rows, nil
}
