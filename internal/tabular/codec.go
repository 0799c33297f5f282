package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// newReader configures a csv.Reader for the table layouts: spacing is
// forgiven, column order and extras (including the unnamed pandas index
// column) are not significant, and ragged rows are rejected by the reader
// itself.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return cr
}

// readHeader returns the first record of the file.
func readHeader(cr *csv.Reader) ([]string, error) {
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrInvalidInput, err)
	}
	return head, nil
}

// columnIndex locates a column by name, or -1 when the header lacks it.
func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

// requireColumns resolves the named columns to indices, in order, and
// rejects headers missing any of them.
func requireColumns(header []string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, name := range names {
		idx[i] = columnIndex(header, name)
		if idx[i] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: header %v is missing columns %v", domain.ErrInvalidInput, header, missing)
	}
	return idx, nil
}

// rowError tags a data problem with the 1-based file row; the header is
// row 1.
func rowError(row int, err error) error {
	return fmt.Errorf("%w: row %d: %v", domain.ErrInvalidInput, row, err)
}

func parseFloat(field, column string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: bad number %q", column, field)
	}
	return v, nil
}

// parseInt accepts integral floats as well; pandas round-trips integer
// columns as 7.0.
func parseInt(field, column string) (int, error) {
	v, err := parseFloat(field, column)
	if err != nil {
		return 0, err
	}
	n := int(v)
	if float64(n) != v {
		return 0, fmt.Errorf("column %s: %v is not an integer", column, v)
	}
	return n, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
