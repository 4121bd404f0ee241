// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tabular holds frame data in go-gg tables.
//
// A frame table has an IndexColumn of type []int that numbers its rows,
// followed by one column per field. A field column is []float64 if
// every value present in it is numeric, with missing values stored as
// NaN, and []string otherwise, with missing values stored as "".
package tabular

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/google/uuid"
)

// IndexColumn is the name of the row index column.
const IndexColumn = "frame"

// A Builder accumulates frame rows into a table.
type Builder struct {
	fields []string
	index  []int
	cols   [][]any
}

// NewBuilder returns a Builder for a table with the given field
// columns, in that order.
func NewBuilder(fields []string) *Builder {
	return &Builder{
		fields: fields,
		cols:   make([][]any, len(fields)),
	}
}

// Add appends a row. values[i] is the value of field i; nil means
// missing.
func (b *Builder) Add(index int, values []any) {
	b.index = append(b.index, index)
	for i := range b.cols {
		b.cols[i] = append(b.cols[i], values[i])
	}
}

// Done returns the table.
func (b *Builder) Done() *table.Table {
	var tb table.Builder
	tb.Add(IndexColumn, b.index)
	for i, name := range b.fields {
		tb.Add(name, typeColumn(b.cols[i]))
	}
	return tb.Done()
}

func typeColumn(vals []any) table.Slice {
	numeric := true
	for _, v := range vals {
		if v == nil {
			continue
		}
		if _, ok := toFloat(v); !ok {
			numeric = false
			break
		}
	}
	if numeric {
		col := make([]float64, len(vals))
		for i, v := range vals {
			if f, ok := toFloat(v); ok {
				col[i] = f
			} else {
				col[i] = math.NaN()
			}
		}
		return col
	}
	col := make([]string, len(vals))
	for i, v := range vals {
		col[i] = FormatValue(v)
	}
	return col
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// FormatValue returns the string form of a frame value as it is
// written to a CSV file.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	case uuid.UUID:
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *url.URL:
		return v.String()
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Floats returns column col of t if it is numeric.
func Floats(t *table.Table, col string) ([]float64, bool) {
	xs, ok := t.Column(col).([]float64)
	return xs, ok
}

// Strings returns column col of t as strings. Numeric columns are
// formatted, with NaN as "". It returns nil if there is no such column.
func Strings(t *table.Table, col string) []string {
	c := t.Column(col)
	if c == nil {
		return nil
	}
	return cellStrings(c)
}

func forEach(col table.Slice, f func(v any)) {
	rv := reflect.ValueOf(col)
	for i := 0; i < rv.Len(); i++ {
		f(rv.Index(i).Interface())
	}
}

// Index returns the row index of t. If t has no IndexColumn, rows are
// numbered from 0.
func Index(t *table.Table) []int {
	if idx, ok := t.Column(IndexColumn).([]int); ok {
		return idx
	}
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// NumericColumns returns the sorted names of the []float64 columns of
// t, not counting the index.
func NumericColumns(t *table.Table) []string {
	var cols []string
	for _, col := range t.Columns() {
		if col == IndexColumn {
			continue
		}
		if _, ok := Floats(t, col); ok {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

// Fields returns the columns of t other than the index.
func Fields(t *table.Table) []string {
	var cols []string
	for _, col := range t.Columns() {
		if col != IndexColumn {
			cols = append(cols, col)
		}
	}
	return cols
}

// Select returns a table holding the index column of t and the named
// columns, in that order. It fails if t has no column of one of the
// names.
func Select(t *table.Table, cols []string) (*table.Table, error) {
	var tb table.Builder
	tb.Add(IndexColumn, Index(t))
	for _, col := range cols {
		c := t.Column(col)
		if c == nil {
			return nil, fmt.Errorf("no column %q", col)
		}
		tb.Add(col, c)
	}
	return tb.Done(), nil
}
