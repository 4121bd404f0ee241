// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/viewerperf/perfstats/tabular"
)

// AutoExport is the export name that selects a name derived from the
// session of the table.
const AutoExport = "auto"

// Export writes t to the named CSV file and returns its path. If name
// is AutoExport, the file is named after the session as by ExportName.
// Names without a .csv extension are reported through opts.Warn and
// nothing is written; Export then returns "".
func Export(t *table.Table, name string, opts *Options) (string, error) {
	opts = opts.withDefaults()
	if name == AutoExport {
		name = ExportName(t, "performance")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		opts.Warn("unknown extension for export %q", name)
		return "", nil
	}
	path := opts.path(name)
	if err := tabular.WriteFile(path, t); err != nil {
		return "", err
	}
	opts.Warn("exported %d frames to %s", t.Len(), path)
	return path, nil
}
