// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"sort"
)

// RootTimer is the parent name of the top-level timer.
const RootTimer = "root"

// TimerInfo describes the timer hierarchy of a frame.
type TimerInfo struct {
	// Children maps a parent timer to its children, sorted by name.
	Children map[string][]string
	// Parent maps a timer to its parent.
	Parent map[string]string
	// Names lists every timer of the frame.
	Names []string
	// Reparented lists the timers that have, or have an ancestor
	// that has, ever been moved to another parent.
	Reparented []string
	// DirectlyReparented lists the timers that have themselves
	// been moved to another parent.
	DirectlyReparented []string
}

// AnalyzeTimers builds the timer hierarchy of rec.
//
// A timer is reparented if it or any timer on its chain of ancestors up
// to the root carries a true EverReparented flag. Timers without the
// flag are reported to warn and treated as not reparented. warn may be
// nil.
func AnalyzeTimers(rec *Record, warn func(format string, args ...interface{})) *TimerInfo {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	timers := rec.Timers()
	info := &TimerInfo{
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
	}
	for name := range timers {
		info.Names = append(info.Names, name)
	}
	sort.Strings(info.Names)

	for _, name := range info.Names {
		if parent, ok := asMap(timers[name])["Parent"].(string); ok {
			info.Children[parent] = append(info.Children[parent], name)
			info.Parent[name] = parent
		}
	}

	warned := make(map[string]bool)
	for _, name := range info.Names {
		cur := name
		seen := map[string]bool{cur: true}
		for cur != RootTimer {
			flag, ok := asMap(timers[cur])["EverReparented"]
			if ok && truthy(flag) {
				if cur == name {
					info.DirectlyReparented = append(info.DirectlyReparented, name)
				}
				info.Reparented = append(info.Reparented, name)
				break
			}
			if !ok && !warned[cur] {
				warned[cur] = true
				warn("timer %s has no EverReparented flag", cur)
			}
			parent, ok := info.Parent[cur]
			if !ok || parent == RootTimer {
				break
			}
			if _, ok := timers[parent]; !ok {
				if !warned[parent] {
					warned[parent] = true
					warn("timer %s has unknown parent %s", cur, parent)
				}
				break
			}
			if seen[parent] {
				warn("timer %s has a cycle in its ancestry", name)
				break
			}
			seen[parent] = true
			cur = parent
		}
	}
	return info
}

// ReparentedSet returns the set of reparented timers.
func (ti *TimerInfo) ReparentedSet() map[string]bool {
	set := make(map[string]bool, len(ti.Reparented))
	for _, name := range ti.Reparented {
		set[name] = true
	}
	return set
}

// Deriver returns a Deriver that subtracts each timer's children when
// computing self time. If noReparented is set, reparented children are
// not subtracted.
func (ti *TimerInfo) Deriver(noReparented bool) *Deriver {
	d := &Deriver{Children: ti.Children}
	if noReparented {
		d.Ignore = ti.ReparentedSet()
	}
	return d
}

// names returns ti.Names, excluding reparented timers if
// noReparented is set.
func (ti *TimerInfo) names(noReparented bool) []string {
	if !noReparented {
		return ti.Names
	}
	skip := ti.ReparentedSet()
	var out []string
	for _, name := range ti.Names {
		if !skip[name] {
			out = append(out, name)
		}
	}
	return out
}

func fields(names []string, prefix, suffix string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + name + suffix
	}
	sort.Strings(out)
	return out
}

// TimeFields returns the "Timers.<name>.Time" field of every timer.
func (ti *TimerInfo) TimeFields(noReparented bool) []string {
	return fields(ti.names(noReparented), "Timers.", ".Time")
}

// CallFields returns the "Timers.<name>.Calls" field of every timer.
func (ti *TimerInfo) CallFields(noReparented bool) []string {
	return fields(ti.names(noReparented), "Timers.", ".Calls")
}

// SelfTimerFields returns the self time field of every timer.
func (ti *TimerInfo) SelfTimerFields(noReparented bool) []string {
	return fields(ti.names(noReparented), DerivedPrefix+"SelfTimers.", "")
}

// ChildTimeFields returns the time field of timer name followed by the
// time fields of its children that are not in ignore.
func (ti *TimerInfo) ChildTimeFields(name string, ignore map[string]bool) []string {
	out := []string{"Timers." + name + ".Time"}
	for _, child := range ti.Children[name] {
		if !ignore[child] {
			out = append(out, "Timers."+child+".Time")
		}
	}
	return out
}

// Ancestors returns the chain of parents of timer name, nearest first,
// ending before RootTimer. The walk stops at an unknown parent or on a
// cycle.
func (ti *TimerInfo) Ancestors(name string) []string {
	var out []string
	seen := map[string]bool{name: true}
	for cur := name; ; {
		parent, ok := ti.Parent[cur]
		if !ok || parent == RootTimer || seen[parent] {
			return out
		}
		out = append(out, parent)
		seen[parent] = true
		cur = parent
	}
}
