// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/viewerperf/perfstats/tabular"
	"gonum.org/v1/gonum/stat"
)

// An OutfitSpan summarizes the frames recorded with one outfit at one
// avatar rendering cost.
type OutfitSpan struct {
	Outfit string
	Cost   float64

	// StartFrame is the index of the first frame of the span and
	// Frames is the number of frames in it.
	StartFrame int
	Frames     int

	// Avg is the median frame time, used as the representative
	// time of the span. The other fields are the standard deviation
	// and percentiles of the frame times.
	Avg, Std float64
	P5, P95  float64
	P25, P75 float64

	// Times holds the frame times of the span, in frame order.
	Times []float64

	// Rows holds the frames of the span.
	Rows *table.Table

	// Attachments is a snapshot of the attachment aggregates at the
	// first frame of the span.
	Attachments AttachmentSnapshot
}

// AttachmentSnapshot holds derived attachment fields of one frame.
// Missing fields are NaN.
type AttachmentSnapshot struct {
	Count           float64
	TrianglesHigh   float64
	TrianglesMid    float64
	TrianglesLow    float64
	TrianglesLowest float64
}

// Label returns the display label of s, for example
// "Casual arc 33K frames 250".
func (s *OutfitSpan) Label() string {
	return fmt.Sprintf("%s arc %s frames %d", s.Outfit, AbbrevNumber(s.Cost), s.Frames)
}

// OutfitSpans groups the rows of t by outfit name and avatar cost and
// returns the groups with at least opts.MinFrames rows, ordered by
// outfit and then cost. Rows without an outfit name or cost are not
// grouped.
func OutfitSpans(t *table.Table, opts *Options) ([]OutfitSpan, error) {
	opts = opts.withDefaults()
	for _, col := range []string{opts.OutfitColumn, opts.CostColumn, opts.TimeColumn} {
		if t.Column(col) == nil {
			return nil, fmt.Errorf("no column %q", col)
		}
	}
	if _, ok := tabular.Floats(t, opts.CostColumn); !ok {
		return nil, fmt.Errorf("column %q is not numeric", opts.CostColumn)
	}
	if _, ok := tabular.Floats(t, opts.TimeColumn); !ok {
		return nil, fmt.Errorf("column %q is not numeric", opts.TimeColumn)
	}

	// A column with no outfit names at all is numeric; group on
	// strings regardless.
	tb := table.NewBuilder(t)
	tb.Add(opts.OutfitColumn, tabular.Strings(t, opts.OutfitColumn))
	if _, ok := t.Column(tabular.IndexColumn).([]int); !ok {
		tb.Add(tabular.IndexColumn, tabular.Index(t))
	}
	t = tb.Done()

	g := table.Filter(t, func(outfit string, cost float64) bool {
		return outfit != "" && !math.IsNaN(cost)
	}, opts.OutfitColumn, opts.CostColumn)
	g = table.GroupBy(g, opts.OutfitColumn, opts.CostColumn)

	var spans []OutfitSpan
	for _, gid := range g.Tables() {
		rows := g.Table(gid)
		opts.Warn("outfit %v cost %v: %d frames", gid.Parent().Label(), gid.Label(), rows.Len())
		if rows.Len() < opts.MinFrames {
			continue
		}
		s := newOutfitSpan(gid.Parent().Label().(string), gid.Label().(float64), rows, opts)
		if math.IsNaN(s.Avg) {
			opts.Warn("outfit %v cost %v: no frame times", s.Outfit, s.Cost)
			continue
		}
		spans = append(spans, s)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Outfit != spans[j].Outfit {
			return spans[i].Outfit < spans[j].Outfit
		}
		return spans[i].Cost < spans[j].Cost
	})
	return spans, nil
}

func newOutfitSpan(outfit string, cost float64, rows *table.Table, opts *Options) OutfitSpan {
	times, _ := tabular.Floats(rows, opts.TimeColumn)
	s := OutfitSpan{
		Outfit:     outfit,
		Cost:       cost,
		StartFrame: tabular.Index(rows)[0],
		Frames:     rows.Len(),
		Times:      times,
		Rows:       rows,
	}

	sample := stats.Sample{Xs: dropNaN(times)}
	s.Avg = quantile(&sample, 0.50)
	s.Std = math.Sqrt(stat.PopVariance(sample.Xs, nil))
	s.P5, s.P95 = quantile(&sample, 0.05), quantile(&sample, 0.95)
	s.P25, s.P75 = quantile(&sample, 0.25), quantile(&sample, 0.75)

	first := func(col string) float64 {
		if xs, ok := tabular.Floats(rows, col); ok && len(xs) > 0 {
			return xs[0]
		}
		return math.NaN()
	}
	s.Attachments = AttachmentSnapshot{
		Count:           first("Derived.Avatar.Attachments.Count"),
		TrianglesHigh:   first("Derived.Avatar.Attachments.triangles_high"),
		TrianglesMid:    first("Derived.Avatar.Attachments.triangles_mid"),
		TrianglesLow:    first("Derived.Avatar.Attachments.triangles_low"),
		TrianglesLowest: first("Derived.Avatar.Attachments.triangles_lowest"),
	}
	return s
}

// dropNaN returns a copy of xs without its NaN values.
func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// quantile returns the q quantile of s, interpolating linearly
// between the two nearest order statistics as numpy and pandas do by
// default. It is NaN if s is empty.
func quantile(s *stats.Sample, q float64) float64 {
	xs := s.Sort().Xs
	n := len(xs)
	switch {
	case n == 0:
		return math.NaN()
	case q <= 0:
		return xs[0]
	case q >= 1:
		return xs[n-1]
	}
	h := q * float64(n-1)
	k := int(h)
	if k+1 >= n {
		return xs[n-1]
	}
	return xs[k] + (h-float64(k))*(xs[k+1]-xs[k])
}

// SpansTable returns a table with one row per span, holding the
// span statistics.
func SpansTable(spans []OutfitSpan) *table.Table {
	n := len(spans)
	outfit := make([]string, n)
	start, frames := make([]int, n), make([]int, n)
	floats := func(f func(s *OutfitSpan) float64) []float64 {
		xs := make([]float64, n)
		for i := range spans {
			xs[i] = f(&spans[i])
		}
		return xs
	}
	for i, s := range spans {
		outfit[i], start[i], frames[i] = s.Outfit, s.StartFrame, s.Frames
	}

	var tb table.Builder
	tb.Add("outfit", outfit)
	tb.Add("arc", floats(func(s *OutfitSpan) float64 { return s.Cost }))
	tb.Add("start_frame", start)
	tb.Add("span", frames)
	tb.Add("avg", floats(func(s *OutfitSpan) float64 { return s.Avg }))
	tb.Add("std", floats(func(s *OutfitSpan) float64 { return s.Std }))
	tb.Add("low", floats(func(s *OutfitSpan) float64 { return s.P5 }))
	tb.Add("high", floats(func(s *OutfitSpan) float64 { return s.P95 }))
	tb.Add("attachments.count", floats(func(s *OutfitSpan) float64 { return s.Attachments.Count }))
	tb.Add("attachments.triangles_high", floats(func(s *OutfitSpan) float64 { return s.Attachments.TrianglesHigh }))
	tb.Add("attachments.triangles_mid", floats(func(s *OutfitSpan) float64 { return s.Attachments.TrianglesMid }))
	tb.Add("attachments.triangles_low", floats(func(s *OutfitSpan) float64 { return s.Attachments.TrianglesLow }))
	tb.Add("attachments.triangles_lowest", floats(func(s *OutfitSpan) float64 { return s.Attachments.TrianglesLowest }))
	return tb.Done()
}
