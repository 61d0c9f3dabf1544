package exporter

import (
	"strconv"

	"catnorm/internal/services"
	"catnorm/internal/tabular"
	"catnorm/pkg/categorical"
)

// Frame is a header and rows of text ready to be written
type Frame struct {
	Header []string
	Rows   [][]string
}

func cellText(v categorical.Value, missingText string) string {
	if l, ok := v.Label(); ok {
		return l
	}
	return missingText
}

// ColumnsFrame lays out the normalized columns side by side
func ColumnsFrame(results []services.ColumnResult, missingText string) Frame {
	f := Frame{Header: make([]string, len(results))}
	n := 0
	for i, r := range results {
		f.Header[i] = r.Output
		n = max(n, r.Column.Len())
	}
	f.Rows = make([][]string, n)
	for row := range f.Rows {
		f.Rows[row] = make([]string, len(results))
		for i, r := range results {
			if row < r.Column.Len() {
				f.Rows[row][i] = cellText(r.Column.Values[row], missingText)
			}
		}
	}
	return f
}

// MergeFrame copies table and substitutes each normalized column in place,
// renaming it to its output name. Untouched columns keep their raw text.
func MergeFrame(table *tabular.Table, results []services.ColumnResult, missingText string) Frame {
	byName := make(map[string]services.ColumnResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	f := Frame{Header: make([]string, len(table.Header))}
	for i, h := range table.Header {
		f.Header[i] = h
		if r, ok := byName[h]; ok {
			f.Header[i] = r.Output
		}
	}

	f.Rows = make([][]string, len(table.Rows))
	for row, src := range table.Rows {
		out := make([]string, len(table.Header))
		copy(out, src)
		for i, h := range table.Header {
			if r, ok := byName[h]; ok && row < r.Column.Len() {
				out[i] = cellText(r.Column.Values[row], missingText)
			}
		}
		f.Rows[row] = out
	}
	return f
}

// RejectionsFrame lists every rejected value; positions are 1-based data rows
func RejectionsFrame(results []services.ColumnResult) Frame {
	f := Frame{Header: []string{"column", "position", "text"}}
	for _, r := range results {
		for _, rej := range r.Rejections {
			f.Rows = append(f.Rows, []string{r.Name, strconv.Itoa(rej.Position), rej.Text})
		}
	}
	return f
}

// SummaryFrame lists level counts in set order followed by missing counts
func SummaryFrame(results []services.ColumnResult) Frame {
	f := Frame{Header: []string{"column", "level", "count"}}
	for _, r := range results {
		for _, lc := range r.Summary.Levels {
			f.Rows = append(f.Rows, []string{r.Output, lc.Label, strconv.Itoa(lc.Count)})
		}
		f.Rows = append(f.Rows,
			[]string{r.Output, "<" + categorical.KindAbsent.String() + ">", strconv.Itoa(r.Summary.Absent)},
			[]string{r.Output, "<" + categorical.KindRejected.String() + ">", strconv.Itoa(r.Summary.Rejected)},
		)
	}
	return f
}

// LevelsFrame lists the category set of every column
func LevelsFrame(results []services.ColumnResult) Frame {
	f := Frame{Header: []string{"column", "position", "level", "ordered"}}
	for _, r := range results {
		ordered := strconv.FormatBool(r.Column.Levels.Ordered())
		for i, l := range r.Column.Levels.Labels() {
			f.Rows = append(f.Rows, []string{r.Output, strconv.Itoa(i + 1), l, ordered})
		}
	}
	return f
}
