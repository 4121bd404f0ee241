// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collect turns performance traces into frame tables.
package collect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/viewerperf/perfstats/frame"
	"github.com/viewerperf/perfstats/tabular"
	"github.com/viewerperf/perfstats/tracefmt"
)

// Options configures Collect.
type Options struct {
	// FilterCSV restricts a CSV input to the requested fields.
	// Otherwise every column of a CSV input is loaded.
	FilterCSV bool

	// MaxRecords, if positive, limits the number of trace records
	// read.
	MaxRecords int

	// Deriver resolves derived fields of trace records.
	Deriver *frame.Deriver

	// Warn, if non-nil, receives notices about the input.
	Warn func(format string, args ...interface{})
}

// IsCSV reports whether path names a previously exported CSV file
// rather than a trace.
func IsCSV(path string) bool {
	return strings.HasSuffix(path, ".csv")
}

// Collect reads the trace or CSV file at path into a frame table with
// one column per field, in sorted order. Trace rows are indexed by
// frame number.
//
// A field that names no derived field is an error matching
// frame.ErrUnknownField.
func Collect(path string, fields []string, opts *Options) (*table.Table, error) {
	if opts == nil {
		opts = new(Options)
	}
	fields = append([]string(nil), fields...)
	sort.Strings(fields)

	if IsCSV(path) {
		t, err := tabular.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !opts.FilterCSV {
			return t, nil
		}
		t, err = tabular.Select(t, fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return t, nil
	}

	f, err := tracefmt.Open(path, &tracefmt.Options{Deriver: opts.Deriver, Warn: opts.Warn})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := tabular.NewBuilder(fields)
	values := make([]any, len(fields))
	for f.Scan() {
		rec := f.Record()
		for i, field := range fields {
			if values[i], err = rec.Field(field, nil); err != nil {
				return nil, err
			}
		}
		b.Add(f.Count()-1, values)
		if opts.MaxRecords > 0 && f.Count() >= opts.MaxRecords {
			break
		}
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return b.Done(), nil
}

// TimerInfo returns the timer hierarchy of the first record of the
// trace at path.
func TimerInfo(path string, warn func(format string, args ...interface{})) (*frame.TimerInfo, error) {
	f, err := tracefmt.Open(path, &tracefmt.Options{Warn: warn})
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if !f.Scan() {
		if err := f.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: no frame records", path)
	}
	return frame.AnalyzeTimers(f.Record(), warn), nil
}
