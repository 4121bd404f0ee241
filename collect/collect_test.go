// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collect

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/viewerperf/perfstats/frame"
	"github.com/viewerperf/perfstats/llsd"
	"github.com/viewerperf/perfstats/tabular"
)

func writeTrace(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("<trace>\n")
	for i := 0; i < n; i++ {
		data, err := llsd.Marshal(llsd.Map{
			"Timers": llsd.Map{
				"Frame":  llsd.Map{"Time": 0.02 + float64(i)*0.001, "Calls": 1, "Parent": "root", "EverReparented": false},
				"Render": llsd.Map{"Time": 0.01, "Calls": 1, "Parent": "Frame", "EverReparented": false},
				"UI":     llsd.Map{"Time": 0.004, "Calls": 2, "Parent": "Render", "EverReparented": true},
			},
			"Avatars": llsd.Map{"Self": llsd.Map{"OutfitName": "Casual", "ARCCalculated": 1200}},
		})
		if err != nil {
			t.Fatal(err)
		}
		b.Write(data)
	}
	b.WriteString("</trace>\n")
	path := filepath.Join(t.TempDir(), "performance.slp")
	if err := os.WriteFile(path, []byte(b.String()), 0o666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollectTrace(t *testing.T) {
	path := writeTrace(t, 5)
	info, err := TimerInfo(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	fields := []string{"Timers.Frame.Time", "Derived.SelfTimers.Render", "Avatars.Self.OutfitName", "Missing.Field"}
	tab, err := Collect(path, fields, &Options{Deriver: info.Deriver(false), MaxRecords: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{tabular.IndexColumn, "Avatars.Self.OutfitName", "Derived.SelfTimers.Render", "Missing.Field", "Timers.Frame.Time"}
	if diff := cmp.Diff(want, tab.Columns()); diff != "" {
		t.Fatalf("columns (-want +got)\n%s", diff)
	}
	if tab.Len() != 3 {
		t.Errorf("got %d rows, want 3", tab.Len())
	}
	approx := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff([]float64{0.02, 0.021, 0.022}, tab.Column("Timers.Frame.Time"), approx); diff != "" {
		t.Errorf("frame times (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.006, 0.006, 0.006}, tab.Column("Derived.SelfTimers.Render"), approx); diff != "" {
		t.Errorf("self times (-want +got)\n%s", diff)
	}
	missing, _ := tabular.Floats(tab, "Missing.Field")
	for _, v := range missing {
		if !math.IsNaN(v) {
			t.Errorf("Missing.Field = %v, want NaN", missing)
			break
		}
	}

	// Reparented children are not subtracted.
	tab, err = Collect(path, []string{"Derived.SelfTimers.Render"}, &Options{Deriver: info.Deriver(true)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.01, 0.01, 0.01, 0.01, 0.01}, tab.Column("Derived.SelfTimers.Render"), approx); diff != "" {
		t.Errorf("self times without reparented (-want +got)\n%s", diff)
	}
}

func TestCollectUnknownField(t *testing.T) {
	path := writeTrace(t, 2)
	_, err := Collect(path, []string{"Derived.Timers.Bogus"}, nil)
	if !errors.Is(err, frame.ErrUnknownField) {
		t.Errorf("want ErrUnknownField, got %v", err)
	}
}

func TestCollectCSV(t *testing.T) {
	path := writeTrace(t, 4)
	fields := []string{"Timers.Frame.Time", "Avatars.Self.OutfitName", "Avatars.Self.ARCCalculated"}
	tab, err := Collect(path, fields, nil)
	if err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(t.TempDir(), "export.csv")
	if err := tabular.WriteFile(csvPath, tab); err != nil {
		t.Fatal(err)
	}

	got, err := Collect(csvPath, fields, &Options{FilterCSV: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tab.Columns(), got.Columns()); diff != "" {
		t.Fatalf("columns (-want +got)\n%s", diff)
	}
	for _, col := range tab.Columns() {
		if diff := cmp.Diff(tab.Column(col), got.Column(col)); diff != "" {
			t.Errorf("column %s (-want +got)\n%s", col, diff)
		}
	}

	got, err = Collect(csvPath, []string{"Timers.Frame.Time"}, &Options{FilterCSV: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{tabular.IndexColumn, "Timers.Frame.Time"}, got.Columns()); diff != "" {
		t.Errorf("filtered columns (-want +got)\n%s", diff)
	}

	got, err = Collect(csvPath, []string{"Timers.Frame.Time"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Columns()) != 4 {
		t.Errorf("unfiltered columns = %v, want all 4", got.Columns())
	}

	if _, err := Collect(csvPath, []string{"Nope"}, &Options{FilterCSV: true}); err == nil {
		t.Error("filtering on a missing column succeeded")
	}
}

func TestTimerInfoEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.slp")
	if err := os.WriteFile(path, []byte("<trace></trace>"), 0o666); err != nil {
		t.Fatal(err)
	}
	if _, err := TimerInfo(path, nil); err == nil {
		t.Error("TimerInfo of empty trace succeeded")
	}
}

func TestExpandFields(t *testing.T) {
	info := &frame.TimerInfo{
		Children:   map[string][]string{"root": {"Frame"}, "Frame": {"Render"}, "Render": {"UI"}},
		Parent:     map[string]string{"Frame": "root", "Render": "Frame", "UI": "Render"},
		Names:      []string{"Frame", "Render", "UI"},
		Reparented: []string{"UI"},
	}
	tests := []struct {
		name string
		req  []string
		opts *FieldOptions
		want []string
	}{
		{
			name: "all timers",
			req:  []string{AllTimers, NoDefault},
			want: []string{"Timers.Frame.Time", "Timers.Render.Time", "Timers.UI.Time"},
		},
		{
			name: "all timers without reparented",
			req:  []string{AllTimers, NoDefault},
			opts: &FieldOptions{NoReparented: true},
			want: []string{"Timers.Frame.Time", "Timers.Render.Time"},
		},
		{
			name: "self timers and calls",
			req:  []string{AllSelfTimers, AllCalls, NoDefault},
			want: []string{
				"Derived.SelfTimers.Frame", "Derived.SelfTimers.Render", "Derived.SelfTimers.UI",
				"Timers.Frame.Calls", "Timers.Render.Calls", "Timers.UI.Calls",
			},
		},
		{
			name: "timers and children",
			req:  []string{NoDefault, "Session.UniqueHostID", "Timers.Render.Time"},
			opts: &FieldOptions{Timers: []string{"Frame"}, ChildTimers: []string{"Render"}},
			want: []string{"Session.UniqueHostID", "Timers.Frame.Time", "Timers.Render.Time", "Timers.UI.Time"},
		},
		{
			name: "children without reparented",
			req:  []string{NoDefault},
			opts: &FieldOptions{ChildTimers: []string{"Render"}, NoReparented: true},
			want: []string{"Timers.Render.Time"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ExpandFields(test.req, info, test.opts)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("(-want +got)\n%s", diff)
			}
		})
	}
}

func TestExpandFieldsDefaults(t *testing.T) {
	got := ExpandFields([]string{"Timers.Frame.Time"}, nil, nil)
	if len(got) != len(DefaultFields()) {
		t.Errorf("got %d fields, want %d defaults", len(got), len(DefaultFields()))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("fields not sorted and unique: %v", got)
		}
	}
}
