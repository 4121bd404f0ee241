// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"errors"
	"strconv"
	"strings"

	"github.com/viewerperf/perfstats/llsd"
)

// BoolProperties are the per-attachment visual-effect flags. The
// derived field "Avatar.Attachments.<prop>" is the fraction of the
// high-LOD triangles of all attachments that belong to attachments
// with the flag set.
var BoolProperties = []string{
	"alpha", "animtex", "bump", "flexi", "glow", "invisi",
	"particles", "planar", "produces_light", "shiny", "weighted_mesh",
}

// SumProperties are the StreamingCost counts summed over all
// attachments by "Avatar.Attachments.<prop>".
var SumProperties = []string{"media_faces"}

// TriangleKeys are the StreamingCost triangle tiers summed over all
// attachments by "Avatar.Attachments.<tier>".
var TriangleKeys = []string{"triangles_lowest", "triangles_low", "triangles_mid", "triangles_high"}

// ErrUnknownField matches any *UnknownFieldError.
var ErrUnknownField = errors.New("unknown derived field")

// An UnknownFieldError reports a derived field path that names no
// derived field. It usually means a typo in a requested field list.
type UnknownFieldError struct {
	Path string
}

func (e *UnknownFieldError) Error() string {
	return "unknown derived field " + strconv.Quote(e.Path)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// A Deriver computes derived fields of frame records. Derived fields
// are computed on every lookup and never stored in the record.
//
// The supported fields, relative to DerivedPrefix, are:
//
//	Timers.Count                  number of timers in the frame
//	Timers.NonRender              Frame time minus Render time
//	Timers.SceneRender            Render time minus UI time
//	SelfTimers.<name>             time of <name> minus the time of its children
//	Avatar.AttachmentCount        number of attachments
//	Avatar.Attachments.Count      number of attachments
//	Avatar.Attachments.MeshCount  number of mesh attachments
//	Avatar.Attachments.<tier>     sum of a triangle tier; see TriangleKeys
//	Avatar.Attachments.<flag>     triangle fraction; see BoolProperties
//	Avatar.Attachments.<count>    sum of a count; see SumProperties
//
// When the data a field depends on is missing from the frame, the
// field resolves to the caller's default.
type Deriver struct {
	// Children maps a timer name to the names of its child timers.
	// It is normally taken from the first record of a trace.
	Children map[string][]string

	// Ignore is the set of child timers that are not subtracted
	// when computing self time.
	Ignore map[string]bool
}

// DerivedFieldNames returns the full paths of the derived fields that
// do not depend on a timer name.
func DerivedFieldNames() []string {
	names := []string{
		"Timers.Count", "Timers.NonRender", "Timers.SceneRender",
		"Avatar.AttachmentCount",
		"Avatar.Attachments.Count", "Avatar.Attachments.MeshCount",
	}
	for _, group := range [][]string{TriangleKeys, BoolProperties, SumProperties} {
		for _, key := range group {
			names = append(names, "Avatar.Attachments."+key)
		}
	}
	for i, name := range names {
		names[i] = DerivedPrefix + name
	}
	return names
}

// Field returns the derived field key of data, where key is a path
// relative to DerivedPrefix. A nil *Deriver has no timer children.
func (d *Deriver) Field(data llsd.Map, key string, def any) (any, error) {
	ns, rest, _ := strings.Cut(key, ".")
	switch ns {
	case "Timers":
		return timersField(data, rest, def, key)
	case "SelfTimers":
		return d.selfTime(data, rest, def), nil
	case "Avatar":
		return avatarField(data, rest, def, key)
	}
	return nil, unknown(key)
}

func unknown(key string) error {
	return &UnknownFieldError{Path: DerivedPrefix + key}
}

func timerTime(timers llsd.Map, name string) (float64, bool) {
	return number(asMap(timers[name])["Time"])
}

func timersField(data llsd.Map, key string, def any, full string) (any, error) {
	timers := asMap(data["Timers"])
	diff := func(a, b string) any {
		ta, ok1 := timerTime(timers, a)
		tb, ok2 := timerTime(timers, b)
		if !ok1 || !ok2 {
			return def
		}
		return ta - tb
	}
	switch key {
	case "Count":
		if timers == nil {
			return def, nil
		}
		return len(timers), nil
	case "NonRender":
		return diff("Frame", "Render"), nil
	case "SceneRender":
		return diff("Render", "UI"), nil
	}
	return nil, unknown(full)
}

func (d *Deriver) selfTime(data llsd.Map, name string, def any) any {
	timers := asMap(data["Timers"])
	t, ok := timerTime(timers, name)
	if !ok {
		return def
	}
	if d == nil {
		return t
	}
	for _, child := range d.Children[name] {
		if d.Ignore[child] {
			continue
		}
		if ct, ok := timerTime(timers, child); ok {
			t -= ct
		}
	}
	return t
}

func avatarField(data llsd.Map, key string, def any, full string) (any, error) {
	attachments := asArray(Extract(data, "Avatars.Self.Attachments", nil))
	if key == "AttachmentCount" {
		if len(attachments) == 0 {
			return def, nil
		}
		return len(attachments), nil
	}
	sub, ok := strings.CutPrefix(key, "Attachments.")
	if !ok || !knownAttachmentField(sub) {
		return nil, unknown(full)
	}
	if len(attachments) == 0 {
		return def, nil
	}
	return attachmentsField(attachments, sub), nil
}

func knownAttachmentField(key string) bool {
	switch key {
	case "Count", "MeshCount":
		return true
	}
	for _, group := range [][]string{TriangleKeys, BoolProperties, SumProperties} {
		for _, k := range group {
			if k == key {
				return true
			}
		}
	}
	return false
}

// attachmentsField computes a known attachment field over a non-empty
// attachment list.
func attachmentsField(attachments llsd.Array, key string) any {
	cost := func(att any, name string) float64 {
		v, _ := number(Extract(att, "StreamingCost."+name, 0.0))
		return v
	}
	switch key {
	case "Count":
		return len(attachments)
	case "MeshCount":
		n := 0
		for _, att := range attachments {
			if truthy(asMap(att)["isMesh"]) {
				n++
			}
		}
		return n
	}

	isBool := false
	for _, p := range BoolProperties {
		if p == key {
			isBool = true
			break
		}
	}
	if !isBool {
		// Triangle tiers and summable counts.
		total := 0.0
		for _, att := range attachments {
			total += cost(att, key)
		}
		return total
	}

	var with, total float64
	for _, att := range attachments {
		tris := cost(att, "triangles_high")
		total += tris
		if truthy(asMap(att)[key]) {
			with += tris
		}
	}
	if total <= 0 {
		return 0.0
	}
	return with / total
}
