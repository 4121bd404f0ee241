// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/aclements/go-gg/table"
	"github.com/viewerperf/perfstats/tabular"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AbbrevNumber shortens f for display: 33412 becomes "33K". Values
// are truncated to a whole number of units.
func AbbrevNumber(f float64) string {
	switch {
	case f <= 0:
		return "0"
	case f <= 1e3:
		return strconv.Itoa(int(f))
	case f <= 1e6:
		return strconv.Itoa(int(f/1e3)) + "K"
	case f <= 1e9:
		return strconv.Itoa(int(f/1e6)) + "M"
	case f <= 1e12:
		return strconv.Itoa(int(f/1e9)) + "G"
	}
	return strconv.Itoa(int(f/1e12)) + "T"
}

var fileNameTransform = transform.Chain(
	norm.NFC,
	runes.Remove(runes.Predicate(func(r rune) bool {
		return r == '*' || r == '/' || r == '\\' || unicode.IsControl(r)
	})),
	runes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}),
)

// FileName turns a label into a file name: white space becomes "_",
// and "*", path separators and control characters are dropped.
func FileName(label string) string {
	s, _, err := transform.String(fileNameTransform, label)
	if err != nil {
		// The transforms only fail on internal errors; fall back
		// to the simple mapping.
		s = strings.Map(func(r rune) rune {
			switch r {
			case ' ':
				return '_'
			case '*', '/', '\\':
				return -1
			}
			return r
		}, label)
	}
	return s
}

// Columns holding the session identifier, newest name first.
var sessionIDColumns = []string{"Session.UniqueSessionUUID", "Session.UniqueID"}

// ExportName returns the default name of a CSV export of t:
// prefix_<session>_<timestamp>.csv, where session is the first six
// characters of the session identifier and timestamp is the first
// recorded Summary.Timestamp, rewritten to be safe in file names.
func ExportName(t *table.Table, prefix string) string {
	var id string
	for _, col := range sessionIDColumns {
		if id = firstValue(t, col); id != "" {
			break
		}
	}
	if len(id) > 6 {
		id = id[:6]
	}
	ts := firstValue(t, "Summary.Timestamp")
	name := prefix + "_" + id + "_" + ts + ".csv"
	return strings.NewReplacer(":", ".", "Z", "", "T", "-").Replace(name)
}

// firstValue returns the first non-empty value of column col of t.
func firstValue(t *table.Table, col string) string {
	for _, s := range tabular.Strings(t, col) {
		if s != "" {
			return s
		}
	}
	return ""
}
