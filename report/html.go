// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("outfits").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Frame times by outfit</title>
</head>
<body>
<h1>Frame times by outfit</h1>
<table border="1">
<tr><th>outfit</th><th>arc</th><th>start frame</th><th>frames</th><th>median</th><th>std</th><th>p5</th><th>p95</th><th>attachments</th><th>triangles</th></tr>
{{- range .Spans}}
<tr><td>{{.Outfit}}</td><td>{{.Cost}}</td><td>{{.StartFrame}}</td><td>{{.Frames}}</td><td>{{printf "%.4f" .Avg}}</td><td>{{printf "%.4f" .Std}}</td><td>{{printf "%.4f" .P5}}</td><td>{{printf "%.4f" .P95}}</td><td>{{.Attachments.Count}}</td><td>{{.Attachments.TrianglesHigh}}</td></tr>
{{- end}}
</table>
{{- range .Charts}}
<p><img src="{{.}}"></p>
{{- end}}
</body>
</html>
`))

type htmlData struct {
	Spans  []OutfitSpan
	Charts []string
}

// WriteHTML writes an HTML page to w that tabulates spans and shows
// the named chart images.
func WriteHTML(w io.Writer, spans []OutfitSpan, charts []string) error {
	return htmlTemplate.Execute(w, htmlData{Spans: spans, Charts: charts})
}
