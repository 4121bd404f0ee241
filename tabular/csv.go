// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// WriteCSV writes t to w. The first column of the output is the row
// index, with an empty header. Missing values are written as empty
// cells.
func WriteCSV(w io.Writer, t *table.Table) error {
	cols := Fields(t)
	cw := csv.NewWriter(w)
	row := make([]string, 1+len(cols))
	copy(row[1:], cols)
	if err := cw.Write(row); err != nil {
		return err
	}

	data := make([][]string, len(cols))
	for i, col := range cols {
		data[i] = cellStrings(t.Column(col))
	}
	for r, idx := range Index(t) {
		row[0] = strconv.Itoa(idx)
		for i := range cols {
			row[1+i] = data[i][r]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellStrings(col table.Slice) []string {
	switch c := col.(type) {
	case []string:
		return c
	case []float64:
		out := make([]string, len(c))
		for i, f := range c {
			out[i] = formatFloat(f)
		}
		return out
	case []int:
		out := make([]string, len(c))
		for i, n := range c {
			out[i] = strconv.Itoa(n)
		}
		return out
	}
	// Other column types, such as the constant columns of a
	// grouped table.
	var out []string
	forEach(col, func(v any) { out = append(out, FormatValue(v)) })
	return out
}

// WriteFile writes t to the CSV file path.
func WriteFile(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV reads a table written by WriteCSV, or any CSV file whose
// first column is an integer row index. Columns whose non-empty cells
// all parse as numbers are []float64; the rest are []string.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV file")
	} else if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("CSV file has no index column")
	}
	cr.FieldsPerRecord = len(header)

	var index []int
	cells := make([][]string, len(header)-1)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad row index %q", line, rec[0])
		}
		index = append(index, idx)
		for i := range cells {
			cells[i] = append(cells[i], rec[1+i])
		}
	}

	var tb table.Builder
	tb.Add(IndexColumn, index)
	for i, name := range header[1:] {
		tb.Add(name, parseColumn(cells[i]))
	}
	return tb.Done(), nil
}

func parseColumn(cells []string) table.Slice {
	floats := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			floats[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cells
		}
		floats[i] = f
	}
	return floats
}

// ReadFile reads the CSV file path.
func ReadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
