// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"math"
	"os"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/viewerperf/perfstats/tabular"
	"gonum.org/v1/gonum/stat"
)

// Chart file names written by ByOutfit.
const (
	CostChart      = "arcs_vs_times.jpg"
	HistogramChart = "times_histo_outfits.jpg"
)

// A Fit is the linear relation between the avatar cost and the
// representative frame time of a set of spans.
type Fit struct {
	Correlation      float64
	Slope, Intercept float64
}

// ByOutfit reports the outfit spans of t. It writes a summary of all
// spans to outfits_<session>_<timestamp>.csv, the frames of each span
// to <label>.csv, and the CostChart and HistogramChart charts. If
// opts.HTML is set, it also writes an HTML report of the spans.
//
// The spans are returned ordered by representative frame time.
func ByOutfit(t *table.Table, opts *Options) ([]OutfitSpan, error) {
	opts = opts.withDefaults()
	spans, err := OutfitSpans(t, opts)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Avg < spans[j].Avg })
	if len(spans) == 0 {
		opts.Warn("no outfit spans with at least %d frames", opts.MinFrames)
		return nil, nil
	}

	summary := opts.path(ExportName(t, "outfits"))
	if err := tabular.WriteFile(summary, SpansTable(spans)); err != nil {
		return nil, err
	}
	opts.Warn("wrote %s", summary)

	for i := range spans {
		s := &spans[i]
		opts.Warn("outfit %s cost %v start frame %d frames %d", s.Outfit, s.Cost, s.StartFrame, s.Frames)
		if err := tabular.WriteFile(opts.path(FileName(s.Label())+".csv"), s.Rows); err != nil {
			return nil, err
		}
	}

	if len(spans) > 1 {
		if fit, ok := FitCost(spans); ok {
			opts.Warn("cost vs time: correlation %.4g, slope %.4g, intercept %.4g", fit.Correlation, fit.Slope, fit.Intercept)
		} else {
			opts.Warn("cost vs time: correlation and fit failed on degenerate input")
		}
	}

	if err := plotCosts(spans, opts.path(CostChart), opts); err != nil {
		return nil, err
	}
	if err := plotHistograms(spans, opts.path(HistogramChart)); err != nil {
		return nil, err
	}

	if opts.HTML != "" {
		path := opts.path(opts.HTML)
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		err = WriteHTML(f, spans, []string{CostChart, HistogramChart})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		opts.Warn("wrote %s", path)
	}
	return spans, nil
}

// FitCost computes the correlation between the avatar cost and the
// representative time of spans, and the least squares line through
// them. It reports false if the input is degenerate, for example if
// every span has the same cost.
func FitCost(spans []OutfitSpan) (Fit, bool) {
	costs := make([]float64, len(spans))
	avgs := make([]float64, len(spans))
	for i, s := range spans {
		costs[i], avgs[i] = s.Cost, s.Avg
	}
	if len(spans) < 2 || stat.Variance(costs, nil) == 0 {
		return Fit{}, false
	}
	var fit Fit
	fit.Intercept, fit.Slope = stat.LinearRegression(costs, avgs, nil, false)
	fit.Correlation = stat.Correlation(costs, avgs, nil)
	for _, v := range []float64{fit.Intercept, fit.Slope} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Fit{}, false
		}
	}
	return fit, true
}
