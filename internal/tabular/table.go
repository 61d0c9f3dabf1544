package tabular

import (
	"fmt"
	"strings"

	apperrors "catnorm/internal/errors"
)

// ReadOptions selects the part of a source that forms the table
type ReadOptions struct {
	// Sheet names the worksheet to read. Empty means the first sheet.
	Sheet string
	// Skip drops this many leading rows before the header row.
	Skip int
}

// Table is a header row followed by data rows. Rows may be shorter than the
// header; missing trailing cells were never written.
type Table struct {
	Source string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table, rejecting empty or duplicate header names
func NewTable(source string, header []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s: header cell %d is empty", source, i+1), nil)
		}
		if _, dup := index[name]; dup {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s: duplicate header %q", source, name), nil)
		}
		index[name] = i
	}
	return &Table{Source: source, Header: header, Rows: rows, index: index}, nil
}

// fromRows splits raw rows into header and data after skipping leading rows
func fromRows(source string, rows [][]string, opts ReadOptions) (*Table, error) {
	if opts.Skip < 0 {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("skip must not be negative, got %d", opts.Skip))
	}
	if len(rows) <= opts.Skip {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s: no header row after skipping %d rows", source, opts.Skip), nil)
	}
	rows = rows[opts.Skip:]
	return NewTable(source, rows[0], rows[1:])
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the table has a column named name
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the cells of the named column in row order. Cells past the
// end of a short row are nil.
func (t *Table) Column(name string) ([]*string, error) {
	col, ok := t.index[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q in %s", name, t.Source))
	}
	cells := make([]*string, len(t.Rows))
	for i, row := range t.Rows {
		if col < len(row) {
			cell := row[col]
			cells[i] = &cell
		}
	}
	return cells, nil
}

// Distinct returns the distinct non-blank cell texts of a column in
// first-seen order. Blank and whitespace-only cells are skipped since they
// always parse as absent.
func (t *Table) Distinct(name string) ([]string, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, c := range cells {
		if c == nil || strings.TrimSpace(*c) == "" {
			continue
		}
		if _, ok := seen[*c]; ok {
			continue
		}
		seen[*c] = struct{}{}
		out = append(out, *c)
	}
	return out, nil
}
