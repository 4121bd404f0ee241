// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package llsd

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Marshal returns the <llsd> document encoding v.
// Map keys are written in sorted order.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the <llsd> document encoding v to w.
func Encode(w io.Writer, v any) error {
	var buf bytes.Buffer
	buf.WriteString("<llsd>")
	if err := encodeValue(&buf, v); err != nil {
		return err
	}
	buf.WriteString("</llsd>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("<undef />")
	case bool:
		if v {
			buf.WriteString("<boolean>true</boolean>")
		} else {
			buf.WriteString("<boolean>false</boolean>")
		}
	case int:
		fmt.Fprintf(buf, "<integer>%d</integer>", v)
	case float64:
		var s string
		switch {
		case math.IsNaN(v):
			s = "nan"
		case math.IsInf(v, 1):
			s = "inf"
		case math.IsInf(v, -1):
			s = "-inf"
		default:
			s = strconv.FormatFloat(v, 'g', -1, 64)
		}
		fmt.Fprintf(buf, "<real>%s</real>", s)
	case uuid.UUID:
		fmt.Fprintf(buf, "<uuid>%s</uuid>", v)
	case string:
		buf.WriteString("<string>")
		escape(buf, v)
		buf.WriteString("</string>")
	case time.Time:
		fmt.Fprintf(buf, "<date>%s</date>", v.UTC().Format(time.RFC3339Nano))
	case *url.URL:
		buf.WriteString("<uri>")
		escape(buf, v.String())
		buf.WriteString("</uri>")
	case []byte:
		fmt.Fprintf(buf, "<binary encoding=\"base64\">%s</binary>", base64.StdEncoding.EncodeToString(v))
	case Map:
		return encodeMap(buf, v)
	case map[string]any:
		return encodeMap(buf, v)
	case Array:
		return encodeArray(buf, v)
	case []any:
		return encodeArray(buf, v)
	default:
		return fmt.Errorf("llsd: cannot encode %T", v)
	}
	return nil
}

func encodeMap(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf.WriteString("<map>")
	for _, k := range keys {
		buf.WriteString("<key>")
		escape(buf, k)
		buf.WriteString("</key>")
		if err := encodeValue(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteString("</map>")
	return nil
}

func encodeArray(buf *bytes.Buffer, a []any) error {
	buf.WriteString("<array>")
	for _, v := range a {
		if err := encodeValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteString("</array>")
	return nil
}

func escape(buf *bytes.Buffer, s string) {
	// EscapeText only fails if the writer does.
	xml.EscapeText(buf, []byte(s))
}
