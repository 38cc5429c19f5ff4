package analyzer

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"strings"
)

// frame is a minimal column-oriented view of one or more CSV files,
// just enough to render a preview and per-column summary statistics.
type frame struct {
	columns []string
	rows    [][]string
}

// readFrame parses one CSV file. The first row is the header; ragged rows
// are tolerated and padded or truncated to the header width.
func readFrame(path string) (*frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New("empty csv")
	}
	header := all[0]
	rows := make([][]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}
	return &frame{columns: header, rows: rows}, nil
}

// concatFrames merges frames by column name, the way dataframes concatenate:
// the column set is the first-seen union, missing cells stay empty.
func concatFrames(frames []*frame) *frame {
	var columns []string
	index := map[string]int{}
	for _, f := range frames {
		for _, c := range f.columns {
			if _, ok := index[c]; !ok {
				index[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}
	var rows [][]string
	for _, f := range frames {
		for _, src := range f.rows {
			row := make([]string, len(columns))
			for i, c := range f.columns {
				if i < len(src) {
					row[index[c]] = src[i]
				}
			}
			rows = append(rows, row)
		}
	}
	return &frame{columns: columns, rows: rows}
}

// head returns the first n rows.
func (f *frame) head(n int) *frame {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return &frame{columns: f.columns, rows: f.rows[:n]}
}

// render formats the frame as an aligned plain-text table.
func (f *frame) render() string {
	widths := make([]int, len(f.columns))
	for i, c := range f.columns {
		widths[i] = len(c)
	}
	for _, row := range f.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteString("\n")
	}
	writeRow(f.columns)
	for _, row := range f.rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), " \n")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
