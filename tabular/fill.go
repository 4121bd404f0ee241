// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tabular

import (
	"math"
	"strings"

	"github.com/aclements/go-gg/table"
)

// FillBlanks returns t with its missing values filled in. Timer
// columns, whose names begin with "Timers.", are filled with zero.
// Other fields are only recorded intermittently, so each missing
// value is filled with the last value present above it.
func FillBlanks(t *table.Table) *table.Table {
	tb := table.NewBuilder(t)
	for _, col := range Fields(t) {
		if strings.HasPrefix(col, "Timers.") {
			tb.Add(col, fillZero(t.Column(col)))
		} else {
			tb.Add(col, forwardFill(t.Column(col)))
		}
	}
	return tb.Done()
}

// ForwardFill returns t with the missing values of the named columns
// replaced by the last value present above them. Unknown columns are
// ignored.
func ForwardFill(t *table.Table, cols ...string) *table.Table {
	tb := table.NewBuilder(t)
	for _, col := range cols {
		if c := t.Column(col); c != nil {
			tb.Add(col, forwardFill(c))
		}
	}
	return tb.Done()
}

// FillNaN returns t with every NaN in its numeric columns replaced
// by v.
func FillNaN(t *table.Table, v float64) *table.Table {
	tb := table.NewBuilder(t)
	for _, col := range NumericColumns(t) {
		xs, _ := Floats(t, col)
		tb.Add(col, fillFloats(xs, v))
	}
	return tb.Done()
}

func fillFloats(xs []float64, v float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			x = v
		}
		out[i] = x
	}
	return out
}

func fillZero(col table.Slice) table.Slice {
	switch c := col.(type) {
	case []float64:
		return fillFloats(c, 0)
	case []string:
		out := make([]string, len(c))
		for i, s := range c {
			if s == "" {
				s = "0"
			}
			out[i] = s
		}
		return out
	}
	return col
}

func forwardFill(col table.Slice) table.Slice {
	switch c := col.(type) {
	case []float64:
		out := make([]float64, len(c))
		last := math.NaN()
		for i, x := range c {
			if math.IsNaN(x) {
				x = last
			}
			out[i], last = x, x
		}
		return out
	case []string:
		out := make([]string, len(c))
		last := ""
		for i, s := range c {
			if s == "" {
				s = last
			}
			out[i], last = s, s
		}
		return out
	}
	return col
}
