// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame provides access to the fields of a viewer performance
// frame record.
//
// A frame record is one decoded <llsd> entry of a trace: a nested map
// of sections such as Timers, Avatars, Session and Summary. Fields are
// named by dotted paths, for example "Timers.Frame.Time" or
// "Avatars.Self.OutfitName".
//
// Paths beginning with "Derived." name synthetic fields that are
// computed from the record on demand. See Deriver for the supported
// derived fields.
package frame

import (
	"strings"

	"github.com/viewerperf/perfstats/llsd"
)

// DerivedPrefix is the path prefix of derived fields.
const DerivedPrefix = "Derived."

// A Record is a single frame record together with the view used to
// resolve its derived fields.
type Record struct {
	// Data is the decoded record. It is never modified.
	Data llsd.Map

	// Deriver resolves "Derived." paths. If nil, derived fields that
	// depend on timer children treat every timer as a leaf.
	Deriver *Deriver
}

// Field returns the value at path, or def if any segment of path is
// missing. Paths beginning with DerivedPrefix are computed by r.Deriver.
//
// The only error Field returns is an *UnknownFieldError for a derived
// path that names no derived field.
func (r *Record) Field(path string, def any) (any, error) {
	if key, ok := strings.CutPrefix(path, DerivedPrefix); ok {
		return r.Deriver.Field(r.Data, key, def)
	}
	return Extract(r.Data, path, def), nil
}

// Timers returns the Timers section of r, or nil if there is none.
func (r *Record) Timers() llsd.Map {
	return asMap(r.Data["Timers"])
}
