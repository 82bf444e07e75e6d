// Package csvimport reads payroll exports into header-keyed rows.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

var (
	ErrEmptyFile       = errors.New("csv file is empty")
	ErrDuplicateHeader = errors.New("csv header contains a duplicate column")
	ErrMissingColumn   = errors.New("csv header is missing a required column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data line. Line is the 1-based line number in the file, so the
// first data row is line 2.
type Row struct {
	Line   int
	Values map[string]string
}

// Table is a parsed export with its header order preserved.
type Table struct {
	Columns []string
	Rows    []Row
}

// Parse reads a CSV export with a header row. Header names are trimmed, and
// rows whose cells are all blank are dropped.
func Parse(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, ErrEmptyFile
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if seen[name] {
			return Table{}, fmt.Errorf("%w: %s", ErrDuplicateHeader, name)
		}
		seen[name] = true
		columns = append(columns, name)
	}

	records, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}

	table := Table{Columns: columns, Rows: make([]Row, 0, len(records))}
	for i, record := range records {
		values := make(map[string]string, len(record))
		blank := true
		for k, v := range record {
			name := strings.TrimSpace(k)
			if name == "" {
				continue
			}
			values[name] = v
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, Row{Line: i + 2, Values: values})
	}
	return table, nil
}

// RequireColumn returns ErrMissingColumn unless the header contains name.
func (t Table) RequireColumn(name string) error {
	for _, c := range t.Columns {
		if c == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// Items returns the row's cells as document items, leaving out the given
// columns (typically the employee id). Blank cells are kept as empty strings.
func (r Row) Items(exclude ...string) map[string]any {
	items := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		if containsString(exclude, k) {
			continue
		}
		items[k] = strings.TrimSpace(v)
	}
	return items
}

// ItemColumns returns the header order without the excluded columns.
func (t Table) ItemColumns(exclude ...string) []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !containsString(exclude, c) {
			out = append(out, c)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
