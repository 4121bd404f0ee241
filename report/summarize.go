// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/viewerperf/perfstats/tabular"
)

// Describe returns a table with one row per numeric column of t,
// giving the count, mean, standard deviation, extremes and quartiles
// of the column. Missing values are treated as zero.
func Describe(t *table.Table) *table.Table {
	t = tabular.FillNaN(t, 0)
	cols := tabular.NumericColumns(t)
	n := len(cols)
	count := make([]int, n)
	mean, std := make([]float64, n), make([]float64, n)
	lo, hi := make([]float64, n), make([]float64, n)
	q25, q50, q75 := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, col := range cols {
		xs, _ := tabular.Floats(t, col)
		s := stats.Sample{Xs: append([]float64(nil), xs...)}
		s.Sort()
		count[i] = len(xs)
		mean[i], std[i] = s.Mean(), s.StdDev()
		lo[i], hi[i] = s.Bounds()
		q25[i], q50[i], q75[i] = quantile(&s, 0.25), quantile(&s, 0.5), quantile(&s, 0.75)
	}

	var tb table.Builder
	tb.Add("field", cols)
	tb.Add("count", count)
	tb.Add("mean", mean)
	tb.Add("std", std)
	tb.Add("min", lo)
	tb.Add("25%", q25)
	tb.Add("50%", q50)
	tb.Add("75%", q75)
	tb.Add("max", hi)
	return tb.Done()
}

// Summarize prints the Describe table of t to w, followed by the
// median of each numeric column in increasing order.
func Summarize(w io.Writer, t *table.Table) error {
	desc := Describe(t)
	if err := table.Fprint(w, desc, "%s", "%d", "%.6g", "%.6g", "%.6g", "%.6g", "%.6g", "%.6g", "%.6g"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nmedians:\n"); err != nil {
		return err
	}
	var tb table.Builder
	tb.Add("field", desc.MustColumn("field"))
	tb.Add("median", desc.MustColumn("50%"))
	medians := table.SortBy(tb.Done(), "median")
	return table.Fprint(w, medians, "%s", "%.6g")
}
