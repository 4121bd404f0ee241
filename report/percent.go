// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/viewerperf/perfstats/tabular"
)

// Files written by ExtractPercent.
const (
	PercentInputFile   = "percent_input.csv"
	DefaultPercentFile = "extract_percent.csv"
)

// ExtractPercent selects the rows of t whose frame time lies strictly
// between the low and high percentiles of the frame time column,
// where low and high are in [0, 100]. The outfit and cost columns are
// forward filled first so that every selected row keeps its outfit.
//
// The input is written to PercentInputFile and the result to
// filename, or DefaultPercentFile if filename is empty.
func ExtractPercent(t *table.Table, low, high float64, filename string, opts *Options) (*table.Table, error) {
	opts = opts.withDefaults()
	if filename == "" {
		filename = DefaultPercentFile
	}
	if low < 0 || high > 100 || low > high {
		return nil, fmt.Errorf("bad percentile range [%g, %g]", low, high)
	}
	key := opts.TimeColumn
	times, ok := tabular.Floats(t, key)
	if !ok {
		return nil, fmt.Errorf("column %q is missing or not numeric", key)
	}

	if err := tabular.WriteFile(opts.path(PercentInputFile), t); err != nil {
		return nil, err
	}

	sample := stats.Sample{Xs: dropNaN(times)}
	lo, hi := quantile(&sample, low/100), quantile(&sample, high/100)
	opts.Warn("extract percent %g-%g of %s: (%g, %g)", low, high, key, lo, hi)

	t = tabular.ForwardFill(t, opts.OutfitColumn, opts.CostColumn)
	res := table.Flatten(table.Filter(t, func(x float64) bool {
		return x > lo && x < hi
	}, key))

	path := opts.path(filename)
	if err := tabular.WriteFile(path, res); err != nil {
		return nil, err
	}
	opts.Warn("wrote %s: %d of %d rows", path, res.Len(), t.Len())
	return res, nil
}
