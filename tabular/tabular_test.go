// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tabular

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

var nan = math.NaN()

func testTable() *table.Table {
	b := NewBuilder([]string{"Avatars.Self.OutfitName", "Summary.Timestamp", "Timers.Frame.Time"})
	ts := time.Date(2017, 3, 8, 21, 14, 5, 0, time.UTC)
	b.Add(0, []any{"Casual", ts, 0.02})
	b.Add(1, []any{nil, nil, 0.025})
	b.Add(2, []any{"Formal", nil, nil})
	b.Add(3, []any{nil, nil, 1})
	return b.Done()
}

func TestBuilder(t *testing.T) {
	tab := testTable()
	want := []string{IndexColumn, "Avatars.Self.OutfitName", "Summary.Timestamp", "Timers.Frame.Time"}
	if diff := cmp.Diff(want, tab.Columns()); diff != "" {
		t.Fatalf("columns (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, Index(tab)); diff != "" {
		t.Errorf("index (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Casual", "", "Formal", ""}, tab.Column("Avatars.Self.OutfitName")); diff != "" {
		t.Errorf("outfit (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2017-03-08T21:14:05Z", "", "", ""}, tab.Column("Summary.Timestamp")); diff != "" {
		t.Errorf("timestamp (-want +got)\n%s", diff)
	}
	times, ok := Floats(tab, "Timers.Frame.Time")
	if !ok {
		t.Fatalf("Timers.Frame.Time is %T, want []float64", tab.Column("Timers.Frame.Time"))
	}
	if diff := cmp.Diff([]float64{0.02, 0.025, nan, 1}, times, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("times (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Timers.Frame.Time"}, NumericColumns(tab)); diff != "" {
		t.Errorf("numeric columns (-want +got)\n%s", diff)
	}
}

func TestFormatValue(t *testing.T) {
	id := uuid.MustParse("6f1d2c3b-4a59-4e68-9d7c-8b9a0f1e2d3c")
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{0.5, "0.5"},
		{nan, ""},
		{id, "6f1d2c3b-4a59-4e68-9d7c-8b9a0f1e2d3c"},
		{[]byte("hi"), "aGk="},
	}
	for _, test := range tests {
		if got := FormatValue(test.in); got != test.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	tab := testTable()
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteFile(path, tab); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tab.Columns(), got.Columns()); diff != "" {
		t.Fatalf("columns (-want +got)\n%s", diff)
	}
	for _, col := range tab.Columns() {
		if diff := cmp.Diff(tab.Column(col), got.Column(col), cmpopts.EquateNaNs()); diff != "" {
			t.Errorf("column %s (-want +got)\n%s", col, diff)
		}
	}

	sel, err := Select(got, []string{"Timers.Frame.Time"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{IndexColumn, "Timers.Frame.Time"}, sel.Columns()); diff != "" {
		t.Errorf("selected columns (-want +got)\n%s", diff)
	}
	if _, err := Select(got, []string{"Nope"}); err == nil {
		t.Error("Select of missing column succeeded")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testTable()); err != nil {
		t.Fatal(err)
	}
	want := `,Avatars.Self.OutfitName,Summary.Timestamp,Timers.Frame.Time
0,Casual,2017-03-08T21:14:05Z,0.02
1,,,0.025
2,Formal,,
3,,,1
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, in := range []string{
		"",
		",a\nx,1\n",
		",a\n0,1,2\n",
	} {
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("ReadCSV(%q) succeeded", in)
		}
	}
}

func TestFillBlanks(t *testing.T) {
	tab := FillBlanks(testTable())
	if diff := cmp.Diff([]string{"Casual", "Casual", "Formal", "Formal"}, tab.Column("Avatars.Self.OutfitName")); diff != "" {
		t.Errorf("outfit (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.02, 0.025, 0, 1}, tab.Column("Timers.Frame.Time")); diff != "" {
		t.Errorf("times (-want +got)\n%s", diff)
	}
}

func TestForwardFill(t *testing.T) {
	var tb table.Builder
	tb.Add(IndexColumn, []int{0, 1, 2, 3})
	tb.Add("arc", []float64{nan, 5, nan, 7})
	tb.Add("other", []float64{nan, 1, nan, 2})
	tab := ForwardFill(tb.Done(), "arc", "missing")
	if diff := cmp.Diff([]float64{nan, 5, 5, 7}, tab.Column("arc"), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("arc (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]float64{nan, 1, nan, 2}, tab.Column("other"), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("other (-want +got)\n%s", diff)
	}

	tab = FillNaN(tab, -1)
	if diff := cmp.Diff([]float64{-1, 1, -1, 2}, tab.Column("other")); diff != "" {
		t.Errorf("FillNaN (-want +got)\n%s", diff)
	}
}
