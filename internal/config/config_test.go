// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/viewerperf/perfstats/report"
)

func defaults() *Config {
	return &Config{
		Fields:       []string{},
		Timers:       []string{},
		ChildTimers:  []string{},
		TimeColumn:   report.DefaultTimeColumn,
		OutfitColumn: report.DefaultOutfitColumn,
		CostColumn:   report.DefaultCostColumn,
		MinFrames:    report.DefaultMinFrames,
		OutDir:       ".",
		TimerFile:    DefaultTimerFile,
	}
}

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(defaults(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "perfstats.yaml", `
fields:
  - Timers.Frame.Time
  - Avatars.Self.ARCCalculated
timers: [Render]
min_frames: 50
outdir: out
html: outfits.html
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := defaults()
	want.Fields = []string{"Timers.Frame.Time", "Avatars.Self.ARCCalculated"}
	want.Timers = []string{"Render"}
	want.MinFrames = 50
	want.OutDir = "out"
	want.HTML = "outfits.html"
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	opts := cfg.ReportOptions()
	if opts.MinFrames != 50 || opts.OutDir != "out" || opts.TimeColumn != report.DefaultTimeColumn {
		t.Errorf("ReportOptions() = %+v", opts)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "perfstats.json", `{"time_column": "Timers.Render.Time", "timer_file": "other.slp"}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TimeColumn != "Timers.Render.Time" || cfg.TimerFile != "other.slp" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PERFSTATS_MIN_FRAMES", "7")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinFrames != 7 {
		t.Errorf("MinFrames = %d, want 7", cfg.MinFrames)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: want error")
	}
	for _, n := range []string{"-3", "0"} {
		bad := writeConfig(t, "bad.yaml", "min_frames: "+n+"\n")
		if _, err := Load(bad); err == nil {
			t.Errorf("min_frames %s: want error", n)
		}
	}
}
