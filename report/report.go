// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report aggregates frame tables and writes the resulting
// CSV files, charts and HTML summaries.
//
// Most reports group frames into outfit spans: the frames recorded
// while the avatar wore one outfit at one avatar rendering cost. See
// OutfitSpans.
package report

import (
	"path/filepath"
)

// Default column names.
const (
	DefaultTimeColumn   = "Timers.Frame.Time"
	DefaultOutfitColumn = "Avatars.Self.OutfitName"
	DefaultCostColumn   = "Avatars.Self.ARCCalculated"
)

// DefaultMinFrames is the smallest outfit span that is reported.
// Shorter spans have too few samples for stable statistics.
const DefaultMinFrames = 101

// Options configures the reports.
type Options struct {
	// OutDir is the directory output files are written to.
	// Relative output names are resolved against it.
	OutDir string

	// MinFrames is the smallest number of frames in a reported
	// outfit span. If zero, DefaultMinFrames is used.
	MinFrames int

	// TimeColumn, OutfitColumn and CostColumn name the frame time,
	// outfit name and avatar cost columns. Empty names select the
	// defaults.
	TimeColumn   string
	OutfitColumn string
	CostColumn   string

	// HTML, if non-empty, is the name of an HTML report written by
	// ByOutfit.
	HTML string

	// Warn, if non-nil, receives progress and diagnostic messages.
	Warn func(format string, args ...interface{})
}

func (o *Options) withDefaults() *Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.MinFrames == 0 {
		opts.MinFrames = DefaultMinFrames
	}
	if opts.TimeColumn == "" {
		opts.TimeColumn = DefaultTimeColumn
	}
	if opts.OutfitColumn == "" {
		opts.OutfitColumn = DefaultOutfitColumn
	}
	if opts.CostColumn == "" {
		opts.CostColumn = DefaultCostColumn
	}
	if opts.Warn == nil {
		opts.Warn = func(string, ...interface{}) {}
	}
	return &opts
}

// path returns the path of output file name.
func (o *Options) path(name string) string {
	if o.OutDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.OutDir, name)
}
