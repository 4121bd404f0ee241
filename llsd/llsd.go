// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package llsd reads and writes the XML serialization of LLSD, the
// self-describing structured data format used by viewer performance
// traces.
//
// Decoded values use the following Go types:
//
//	undef    nil
//	boolean  bool
//	integer  int
//	real     float64
//	uuid     uuid.UUID
//	string   string
//	date     time.Time
//	uri      *url.URL
//	binary   []byte
//	map      Map
//	array    Array
//
// The decoder works on an *xml.Decoder token stream so callers can
// decode one <llsd> document at a time out of a larger stream without
// holding the whole input in memory.
package llsd

import "fmt"

// A Map is an LLSD map.
type Map map[string]any

// An Array is an LLSD array.
type Array []any

// A SyntaxError reports a malformed LLSD value.
type SyntaxError struct {
	Line int    // 1-based line in the XML input, or 0 if unknown
	Elem string // element being decoded
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("llsd: <%s>: %s", e.Elem, e.Msg)
	}
	return fmt.Sprintf("llsd: line %d: <%s>: %s", e.Line, e.Elem, e.Msg)
}
