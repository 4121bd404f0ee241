// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package llsd

import (
	"encoding/xml"
	"errors"
	"io"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestUnmarshalScalars(t *testing.T) {
	id := uuid.MustParse("0b4c1a58-3a8f-4a5e-9b6f-3b9f7c2a1d00")
	tests := []struct {
		in   string
		want any
	}{
		{"<llsd><undef /></llsd>", nil},
		{"<llsd></llsd>", nil},
		{"<llsd><boolean>1</boolean></llsd>", true},
		{"<llsd><boolean>true</boolean></llsd>", true},
		{"<llsd><boolean /></llsd>", false},
		{"<llsd><boolean>0</boolean></llsd>", false},
		{"<llsd><integer>42</integer></llsd>", 42},
		{"<llsd><integer>-7</integer></llsd>", -7},
		{"<llsd><integer /></llsd>", 0},
		{"<llsd><real>0.0125</real></llsd>", 0.0125},
		{"<llsd><real /></llsd>", 0.0},
		{"<llsd><uuid>" + id.String() + "</uuid></llsd>", id},
		{"<llsd><uuid /></llsd>", uuid.Nil},
		{"<llsd><string>a &amp; b</string></llsd>", "a & b"},
		{"<llsd><string /></llsd>", ""},
		{"<llsd><date>2017-03-08T21:14:05Z</date></llsd>", time.Date(2017, 3, 8, 21, 14, 5, 0, time.UTC)},
		{"<llsd><date /></llsd>", time.Unix(0, 0).UTC()},
		{"<llsd><binary encoding=\"base64\">aGVs\nbG8=</binary></llsd>", []byte("hello")},
	}
	for _, test := range tests {
		got, err := Unmarshal([]byte(test.in))
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.in, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: (-want +got)\n%s", test.in, diff)
		}
	}
}

func TestUnmarshalNaN(t *testing.T) {
	got, err := Unmarshal([]byte("<llsd><real>nan</real></llsd>"))
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := got.(float64); !ok || !math.IsNaN(f) {
		t.Errorf("want NaN, got %v", got)
	}
}

func TestUnmarshalURI(t *testing.T) {
	got, err := Unmarshal([]byte("<llsd><uri>http://example.com/a?b=c</uri></llsd>"))
	if err != nil {
		t.Fatal(err)
	}
	u, ok := got.(*url.URL)
	if !ok || u.String() != "http://example.com/a?b=c" {
		t.Errorf("want uri, got %#v", got)
	}
}

func TestUnmarshalNested(t *testing.T) {
	in := `<?xml version="1.0" ?>
<llsd>
  <map>
    <key>Timers</key>
    <map>
      <key>Frame</key>
      <map><key>Time</key><real>0.02</real><key>Calls</key><integer>1</integer></map>
    </map>
    <key>Attachments</key>
    <array>
      <map><key>isMesh</key><boolean>1</boolean></map>
      <undef />
    </array>
  </map>
</llsd>`
	got, err := Unmarshal([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	want := Map{
		"Timers": Map{
			"Frame": Map{"Time": 0.02, "Calls": 1},
		},
		"Attachments": Array{Map{"isMesh": true}, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad integer", "<llsd><integer>x</integer></llsd>"},
		{"bad real", "<llsd><real>1.2.3</real></llsd>"},
		{"bad boolean", "<llsd><boolean>maybe</boolean></llsd>"},
		{"bad uuid", "<llsd><uuid>not-a-uuid</uuid></llsd>"},
		{"unknown element", "<llsd><widget /></llsd>"},
		{"map without key", "<llsd><map><string>a</string></map></llsd>"},
		{"key without value", "<llsd><map><key>a</key></map></llsd>"},
		{"two values", "<llsd><integer>1</integer><integer>2</integer></llsd>"},
		{"nested scalar", "<llsd><string><integer>1</integer></string></llsd>"},
		{"bad encoding", "<llsd><binary encoding=\"base85\">abc</binary></llsd>"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(test.in))
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("want *SyntaxError, got %v", err)
			}
		})
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	_, err := Unmarshal([]byte("<llsd><map><key>a</key><real>1"))
	if err == nil {
		t.Fatal("want error for truncated input")
	}
	var xse *xml.SyntaxError
	if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.As(err, &xse) {
		t.Errorf("want truncation error, got %T: %v", err, err)
	}
}

func TestRoundTrip(t *testing.T) {
	v := Map{
		"Session": Map{
			"UniqueSessionUUID": uuid.MustParse("6f1d2c3b-4a59-4e68-9d7c-8b9a0f1e2d3c"),
			"Name":              "<tag> & stuff",
		},
		"Summary": Map{"Timestamp": time.Date(2017, 3, 8, 21, 14, 5, 0, time.UTC)},
		"List":    Array{1, 2.5, false, nil, []byte{0, 1, 2}},
	}
	data, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("%s: %v", data, err)
	}
	if diff := cmp.Diff(any(v), got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestMarshalUnsupported(t *testing.T) {
	if _, err := Marshal(struct{}{}); err == nil {
		t.Error("want error for struct value")
	}
}
