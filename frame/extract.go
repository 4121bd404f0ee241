// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"strings"

	"github.com/viewerperf/perfstats/llsd"
)

// Extract walks the dotted path through nested maps starting at v and
// returns the value it names. If any segment is missing, or an
// intermediate value is not a map, Extract returns def.
func Extract(v any, path string, def any) any {
	for path != "" {
		var key string
		key, path, _ = strings.Cut(path, ".")
		m := asMap(v)
		if m == nil {
			return def
		}
		var ok bool
		if v, ok = m[key]; !ok {
			return def
		}
	}
	return v
}

func asMap(v any) llsd.Map {
	switch v := v.(type) {
	case llsd.Map:
		return v
	case map[string]any:
		return v
	}
	return nil
}

func asArray(v any) llsd.Array {
	switch v := v.(type) {
	case llsd.Array:
		return v
	case []any:
		return v
	}
	return nil
}

// number converts an LLSD numeric value to float64.
func number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// truthy reports whether v is set in the LLSD sense: a true boolean, a
// non-zero number or a non-empty string.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return true
}
