// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collect

import (
	"sort"

	"github.com/viewerperf/perfstats/frame"
)

// Special names accepted in a field list.
const (
	AllTimers     = "all_timers"      // time of every timer
	AllSelfTimers = "all_self_timers" // self time of every timer
	AllCalls      = "all_calls"       // call count of every timer
	NoDefault     = "no_default"      // omit DefaultFields
)

// DefaultFields returns the fields collected unless NoDefault is
// requested.
func DefaultFields() []string {
	fields := []string{
		"Timers.Frame.Time",
		"Timers.Render.Time",
		"Timers.UI.Time",
		"Session.UniqueHostID",
		"Session.UniqueSessionUUID",
		"Summary.Timestamp",
		"Avatars.Self.ARCCalculated",
		"Avatars.Self.OutfitName",
		"Avatars.Self.AttachmentSurfaceArea",
		"Derived.Timers.NonRender",
		"Derived.Timers.SceneRender",
		"Derived.Avatar.Attachments.Count",
		"Derived.Avatar.Attachments.MeshCount",
		"Derived.Avatar.Attachments.triangles_high",
		"Derived.Avatar.Attachments.triangles_mid",
		"Derived.Avatar.Attachments.triangles_low",
		"Derived.Avatar.Attachments.triangles_lowest",
		"Derived.SelfTimers.Render",
	}
	for _, p := range frame.BoolProperties {
		fields = append(fields, "Derived.Avatar.Attachments."+p)
	}
	for _, p := range frame.SumProperties {
		fields = append(fields, "Derived.Avatar.Attachments."+p)
	}
	return fields
}

// FieldOptions controls ExpandFields.
type FieldOptions struct {
	// Timers adds the time field of each named timer.
	Timers []string

	// ChildTimers adds the time field of each named timer and of
	// its children.
	ChildTimers []string

	// NoReparented omits reparented timers from the special field
	// names and from the children added by ChildTimers.
	NoReparented bool
}

// ExpandFields returns the fields to collect for the requested field
// list req. The special names in req are replaced by the fields they
// stand for, DefaultFields are added unless req contains NoDefault,
// and the fields named by opts are added. The result is sorted and has
// no duplicates.
func ExpandFields(req []string, info *frame.TimerInfo, opts *FieldOptions) []string {
	if opts == nil {
		opts = new(FieldOptions)
	}
	if info == nil {
		info = new(frame.TimerInfo)
	}
	var fields []string
	defaults := true
	for _, f := range req {
		switch f {
		case AllTimers:
			fields = append(fields, info.TimeFields(opts.NoReparented)...)
		case AllSelfTimers:
			fields = append(fields, info.SelfTimerFields(opts.NoReparented)...)
		case AllCalls:
			fields = append(fields, info.CallFields(opts.NoReparented)...)
		case NoDefault:
			defaults = false
		default:
			fields = append(fields, f)
		}
	}
	if defaults {
		fields = append(fields, DefaultFields()...)
	}
	for _, name := range opts.Timers {
		fields = append(fields, "Timers."+name+".Time")
	}
	var ignore map[string]bool
	if opts.NoReparented {
		ignore = info.ReparentedSet()
	}
	for _, name := range opts.ChildTimers {
		fields = append(fields, info.ChildTimeFields(name, ignore)...)
	}

	sort.Strings(fields)
	out := fields[:0]
	for i, f := range fields {
		if i == 0 || f != fields[i-1] {
			out = append(out, f)
		}
	}
	return out
}
