// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/viewerperf/perfstats/tabular"
)

// CompareFile is the output file of Compare.
const CompareFile = "compare.csv"

// Compare compares the means of the numeric fields shared by a and b,
// after filling their blanks. The result has one row per shared
// field, in sorted order, with the columns names, mean_a, mean_b,
// abs_diff_mean and diff_mean_pct, the change from a to b as a
// percentage of a's mean (0 if a's mean is 0). The result is written
// to CompareFile.
func Compare(a, b *table.Table, opts *Options) (*table.Table, error) {
	opts = opts.withDefaults()
	a, b = tabular.FillBlanks(a), tabular.FillBlanks(b)

	inB := make(map[string]bool)
	for _, col := range tabular.NumericColumns(b) {
		inB[col] = true
	}
	var names []string
	for _, col := range tabular.NumericColumns(a) {
		if inB[col] {
			names = append(names, col)
		}
	}
	opts.Warn("compare found %d shared columns", len(names))

	n := len(names)
	meanA, meanB := make([]float64, n), make([]float64, n)
	absDiff, pct := make([]float64, n), make([]float64, n)
	for i, col := range names {
		xa, _ := tabular.Floats(a, col)
		xb, _ := tabular.Floats(b, col)
		meanA[i], meanB[i] = mean(xa), mean(xb)
		absDiff[i] = math.Abs(meanA[i] - meanB[i])
		if meanA[i] != 0 {
			pct[i] = 100 * (meanB[i] - meanA[i]) / meanA[i]
		}
	}

	var tb table.Builder
	tb.Add("names", names)
	tb.Add("mean_a", meanA)
	tb.Add("mean_b", meanB)
	tb.Add("abs_diff_mean", absDiff)
	tb.Add("diff_mean_pct", pct)
	res := tb.Done()

	path := opts.path(CompareFile)
	if err := tabular.WriteFile(path, res); err != nil {
		return nil, err
	}
	opts.Warn("wrote %s", path)
	return res, nil
}

// mean returns the mean of the non-NaN values of xs, or NaN if there
// are none.
func mean(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return math.NaN()
	}
	return stats.Mean(xs)
}
