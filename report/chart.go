// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/viewerperf/perfstats/tabular"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	dpi       = 96
	histoBins = 100
)

var (
	histoFill = color.NRGBA{R: 31, G: 119, B: 180, A: 77}
	avgColor  = color.RGBA{B: 255, A: 255}
)

// writeJPEG renders p as a JPEG image to path.
func writeJPEG(p *plot.Plot, width, height vg.Length, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	p.Draw(draw.New(c))
	return writeCanvas(vgimg.JpegCanvas{Canvas: c}, path)
}

func writeCanvas(can vg.CanvasWriterTo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// errPoints is a set of points with vertical error bars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// plotCosts writes a scatter chart of the representative frame time
// of each span against its avatar cost, with error bars spanning the
// 25th to 75th percentile.
func plotCosts(spans []OutfitSpan, path string, opts *Options) error {
	pts := make(plotter.XYs, len(spans))
	errs := make(plotter.YErrors, len(spans))
	labels := make([]string, len(spans))
	for i, s := range spans {
		pts[i].X, pts[i].Y = s.Cost, s.Avg
		errs[i].Low, errs[i].High = s.Avg-s.P25, s.P75-s.Avg
		labels[i] = s.Label()
	}

	p := plot.New()
	p.X.Label.Text = opts.CostColumn
	p.Y.Label.Text = opts.TimeColumn
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	bars, err := plotter.NewYErrorBars(errPoints{pts, errs})
	if err != nil {
		return err
	}
	names, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(scatter, bars, names)
	return writeJPEG(p, 8*vg.Inch, 6*vg.Inch, path)
}

// histogram returns the histogram of xs over histoBins equal bins
// spanning [lo, hi). Values outside the range are not counted.
func histogram(xs []float64, lo, hi float64) *plotter.Histogram {
	var in []float64
	for _, x := range xs {
		if x >= lo && x < hi {
			in = append(in, x)
		}
	}
	sort.Float64s(in)
	dividers := make([]float64, histoBins+1)
	floats.Span(dividers, lo, hi)
	counts := stat.Histogram(nil, dividers, in, nil)

	bins := make([]plotter.HistogramBin, histoBins)
	for i := range bins {
		bins[i] = plotter.HistogramBin{Min: dividers[i], Max: dividers[i+1], Weight: counts[i]}
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     dividers[1] - dividers[0],
		FillColor: histoFill,
		LineStyle: plotter.DefaultLineStyle,
	}
}

// plotHistograms writes one frame time histogram per span, stacked
// vertically over a shared range, with a line at the span's
// representative time.
func plotHistograms(spans []OutfitSpan, path string) error {
	var all []float64
	for _, s := range spans {
		all = append(all, dropNaN(s.Times)...)
	}
	sample := stats.Sample{Xs: all}
	lo, hi := quantile(&sample, 0), quantile(&sample, 0.98)
	if !(hi > lo) {
		// Degenerate range; widen it so the bins have width.
		hi = lo + 1e-3
	}

	plots := make([][]*plot.Plot, len(spans))
	for i, s := range spans {
		p := plot.New()
		p.Title.Text = s.Label()
		h := histogram(s.Times, lo, hi)
		top := 0.0
		for _, b := range h.Bins {
			top = math.Max(top, b.Weight)
		}
		avg, err := plotter.NewLine(plotter.XYs{{X: s.Avg, Y: 0}, {X: s.Avg, Y: math.Max(top, 1)}})
		if err != nil {
			return err
		}
		avg.Color = avgColor
		p.Add(h, avg)
		p.X.Min, p.X.Max = lo, hi
		plots[i] = []*plot.Plot{p}
	}

	c := vgimg.NewWith(vgimg.UseWH(6*vg.Inch, vg.Length(2*len(spans))*vg.Inch),
		vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	tiles := draw.Tiles{
		Rows: len(spans), Cols: 1,
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
		PadLeft: vg.Points(4), PadRight: vg.Points(4),
		PadY: vg.Points(12),
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	return writeCanvas(vgimg.JpegCanvas{Canvas: c}, path)
}

// PlotTimeSeries writes a chart of each field of t over the frame
// index to time_series_<field>.jpg. Each outfit span is marked by a
// segment at its representative time, labeled with the outfit name.
// It returns the paths written.
func PlotTimeSeries(t *table.Table, fields []string, opts *Options) ([]string, error) {
	opts = opts.withDefaults()
	spans, err := OutfitSpans(t, opts)
	if err != nil {
		opts.Warn("time series without outfit spans: %v", err)
		spans = nil
	}
	index := tabular.Index(t)

	var paths []string
	for _, field := range fields {
		ys, ok := tabular.Floats(t, field)
		if !ok {
			return paths, fmt.Errorf("time series: column %q is missing or not numeric", field)
		}
		var pts plotter.XYs
		for i, y := range ys {
			if !math.IsNaN(y) && !math.IsInf(y, 0) {
				pts = append(pts, plotter.XY{X: float64(index[i]), Y: y})
			}
		}

		p := plot.New()
		p.Title.Text = field
		p.X.Label.Text = tabular.IndexColumn
		if len(pts) > 0 {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return paths, err
			}
			line.Color = histoFill
			p.Add(line)
		}

		var marks plotter.XYs
		var names []string
		for _, s := range spans {
			x0, x1 := float64(s.StartFrame), float64(s.StartFrame+s.Frames)
			seg, err := plotter.NewLine(plotter.XYs{{X: x0, Y: s.Avg}, {X: x1, Y: s.Avg}})
			if err != nil {
				return paths, err
			}
			seg.Color = avgColor
			p.Add(seg)
			marks = append(marks, plotter.XY{X: (x0 + x1) / 2, Y: s.Avg})
			names = append(names, s.Outfit)
		}
		if len(marks) > 0 {
			labels, err := plotter.NewLabels(plotter.XYLabels{XYs: marks, Labels: names})
			if err != nil {
				return paths, err
			}
			p.Add(labels)
		}
		p.Y.Min, p.Y.Max = 0, 0.1

		path := opts.path("time_series_" + FileName(field) + ".jpg")
		if err := writeJPEG(p, 8*vg.Inch, 6*vg.Inch, path); err != nil {
			return paths, err
		}
		opts.Warn("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}
