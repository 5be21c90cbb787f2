package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

// Table is a parsed delimited file: named columns over string cells.
// Column names are trimmed and lowercased at parse time, so lookups are
// case-insensitive by construction.
type Table struct {
	columns map[string]int
	order   []string
	rows    [][]string
}

// Read parses a CSV stream with a header row. Fails with ErrBadInput when
// the stream is not valid CSV.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", analysis.ErrBadInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", analysis.ErrBadInput, err)
	}

	t := &Table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.ReplaceAll(name, `"`, "")
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
			t.order = append(t.order, name)
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row %d: %v", analysis.ErrBadInput, len(t.rows)+2, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// Len is the number of data rows (header excluded).
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the normalized column names in file order.
func (t *Table) Columns() []string { return t.order }

// HasColumn reports whether the named (normalized) column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Strings returns the named column as raw cells. ErrBadInput when absent.
func (t *Table) Strings(name string) ([]string, error) {
	idx, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", analysis.ErrBadInput, name)
	}
	out := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		if idx >= len(row) {
			out = append(out, "")
			continue
		}
		out = append(out, strings.TrimSpace(row[idx]))
	}
	return out, nil
}

// Floats parses the named column as float64s. A cell that does not parse is
// an input error naming the row and column.
func (t *Table) Floats(name string) ([]float64, error) {
	cells, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q is not numeric", analysis.ErrBadInput, name, i+2, c)
		}
		out[i] = v
	}
	return out, nil
}
