// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Perfstats analyzes viewer performance traces.
//
// Usage:
//
//	perfstats [flags] [infilename]
//
// The input is a performance trace, a sequence of LLSD frame records
// that may be gzip or zstd compressed, or a CSV file written by a
// previous -export. It defaults to performance.slp.
//
// Perfstats collects the requested fields of every frame into a table
// and then, as selected by flags, compares it to another capture,
// exports it, summarizes it, breaks it down by avatar outfit, or
// charts fields over time.
//
// A field is a dotted path into a frame record, such as
// Timers.Frame.Time, or one of the derived fields listed by -help.
// The special fields all_timers, all_self_timers and all_calls stand
// for the time, self time or call count of every timer, and
// no_default omits the default field list.
//
// Settings may also be given in a YAML, TOML or JSON file named by
// -config. Flags given on the command line take precedence.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/viewerperf/perfstats/collect"
	"github.com/viewerperf/perfstats/frame"
	"github.com/viewerperf/perfstats/internal/config"
	"github.com/viewerperf/perfstats/report"
	"github.com/viewerperf/perfstats/tabular"
)

var exit = os.Exit // replaced during testing

const defaultInput = "performance.slp"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: perfstats [flags] [infilename]\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nderived fields:\n")
	for _, name := range frame.DerivedFieldNames() {
		fmt.Fprintf(os.Stderr, "\t%s\n", name)
	}
	exit(2)
}

var (
	flagFields         = flag.String("fields", "", "comma-separated `fields` to extract or derive")
	flagTimers         = flag.String("timers", "", "comma-separated `timers` whose times are added to the fields")
	flagChildTimers    = flag.String("child_timers", "", "comma-separated `timers` whose times and children's times are added to the fields")
	flagPlotTimeSeries = flag.String("plot_time_series", "", "chart comma-separated `fields` by frame")
	flagNoReparented   = flag.Bool("no_reparented", false, "ignore timers that have been reparented directly or indirectly")
	flagFilterCSV      = flag.Bool("filter_csv", false, "restrict CSV input to the requested fields")
	flagExport         = flag.String("export", "", "export the frame table to `file`.csv, or auto to name it after the session")
	flagMaxRecords     = flag.Int("max_records", 0, "read at most `n` frame records")
	flagByOutfit       = flag.Bool("by_outfit", false, "break results down by avatar outfit")
	flagExtractPercent = flag.String("extract_percent", "", "extract frames with times strictly between two percentiles, as `low,high[,file]`")
	flagCompare        = flag.String("compare", "", "compare the input to `file`")
	flagSummarize      = flag.Bool("summarize", false, "print a summary of every numeric field")
	flagFillBlanks     = flag.Bool("fill_blanks", false, "fill missing values: zero for timers, last value otherwise")
	flagVerbose        = flag.Bool("verbose", false, "print extra diagnostics")
	flagConfig         = flag.String("config", "", "read settings from `file`")
	flagTimerFile      = flag.String("timer_file", config.DefaultTimerFile, "trace `file` that provides the timer hierarchy for CSV input")
	flagMinFrames      = flag.Int("min_frames", report.DefaultMinFrames, "smallest outfit span to report, in `frames` (must be positive)")
	flagHTML           = flag.String("html", "", "with -by_outfit, also write an HTML report to `file`")
	flagOutDir         = flag.String("outdir", ".", "write output files to `dir`")
)

// settings holds everything a run needs, merged from the
// configuration file and the command line.
type settings struct {
	config.Config

	Input          string
	NoReparented   bool
	FilterCSV      bool
	Export         string
	MaxRecords     int
	ByOutfit       bool
	ExtractPercent string
	Compare        string
	Summarize      bool
	FillBlanks     bool
	Verbose        bool
	PlotTimeSeries []string
}

func main() {
	log.SetPrefix("perfstats: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
	}

	s, err := loadSettings()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(os.Stdout, s); err != nil {
		log.Fatal(err)
	}
}

// loadSettings reads the -config file and applies the flags given on
// the command line over it.
func loadSettings() (*settings, error) {
	cfg, err := config.Load(*flagConfig)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["fields"] {
		cfg.Fields = splitList(*flagFields)
	}
	if set["timers"] {
		cfg.Timers = splitList(*flagTimers)
	}
	if set["child_timers"] {
		cfg.ChildTimers = splitList(*flagChildTimers)
	}
	if set["timer_file"] {
		cfg.TimerFile = *flagTimerFile
	}
	if set["min_frames"] {
		cfg.MinFrames = *flagMinFrames
	}
	if set["html"] {
		cfg.HTML = *flagHTML
	}
	if set["outdir"] {
		cfg.OutDir = *flagOutDir
	}

	s := &settings{
		Config:         *cfg,
		Input:          defaultInput,
		NoReparented:   *flagNoReparented,
		FilterCSV:      *flagFilterCSV,
		Export:         *flagExport,
		MaxRecords:     *flagMaxRecords,
		ByOutfit:       *flagByOutfit,
		ExtractPercent: *flagExtractPercent,
		Compare:        *flagCompare,
		Summarize:      *flagSummarize,
		FillBlanks:     *flagFillBlanks,
		Verbose:        *flagVerbose,
		PlotTimeSeries: splitList(*flagPlotTimeSeries),
	}
	if flag.NArg() == 1 {
		s.Input = flag.Arg(0)
	}
	return s, nil
}

// splitList splits a comma-separated list, dropping empty elements.
func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// percentArg is the parsed form of -extract_percent.
type percentArg struct {
	low, high float64
	file      string
}

func parsePercent(arg string) (percentArg, error) {
	parts := strings.Split(arg, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return percentArg{}, fmt.Errorf("-extract_percent %q: want low,high[,file]", arg)
	}
	var p percentArg
	var err error
	if p.low, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return percentArg{}, fmt.Errorf("-extract_percent low: %w", err)
	}
	if p.high, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return percentArg{}, fmt.Errorf("-extract_percent high: %w", err)
	}
	if len(parts) == 3 {
		p.file = parts[2]
	}
	return p, nil
}

func run(w io.Writer, s *settings) error {
	if s.MinFrames <= 0 {
		return fmt.Errorf("-min_frames %d: must be positive", s.MinFrames)
	}
	var pct percentArg
	if s.ExtractPercent != "" {
		var err error
		if pct, err = parsePercent(s.ExtractPercent); err != nil {
			return err
		}
	}
	if s.OutDir != "" {
		if err := os.MkdirAll(s.OutDir, 0o777); err != nil {
			return err
		}
	}

	timerFile := s.Input
	if collect.IsCSV(timerFile) {
		timerFile = s.TimerFile
	}
	info, err := collect.TimerInfo(timerFile, log.Printf)
	if err != nil {
		if !collect.IsCSV(s.Input) {
			return err
		}
		log.Printf("no timer hierarchy: %v", err)
		info = new(frame.TimerInfo)
	}
	if s.NoReparented {
		log.Printf("%d timers are reparented, of which %d directly", len(info.Reparented), len(info.DirectlyReparented))
		log.Printf("reparented: %s", strings.Join(info.Reparented, ", "))
		log.Printf("directly reparented: %s", strings.Join(info.DirectlyReparented, ", "))
	}

	fields := collect.ExpandFields(s.Fields, info, &collect.FieldOptions{
		Timers:       s.Timers,
		ChildTimers:  s.ChildTimers,
		NoReparented: s.NoReparented,
	})
	if s.Verbose {
		log.Printf("fields: %s", strings.Join(fields, ", "))
	}

	copts := &collect.Options{
		FilterCSV:  s.FilterCSV,
		MaxRecords: s.MaxRecords,
		Deriver:    info.Deriver(s.NoReparented),
		Warn:       log.Printf,
	}
	t, err := collect.Collect(s.Input, fields, copts)
	if err != nil {
		return err
	}
	log.Printf("%s: %d frames, %d fields", s.Input, t.Len(), len(tabular.Fields(t)))

	ropts := s.ReportOptions()
	ropts.Warn = log.Printf

	if s.Compare != "" {
		other, err := collect.Collect(s.Compare, fields, copts)
		if err != nil {
			return err
		}
		res, err := report.Compare(t, other, ropts)
		if err != nil {
			return err
		}
		if err := table.Fprint(w, res); err != nil {
			return err
		}
	}

	if s.Verbose {
		fmt.Fprintf(w, "timer ancestry:\n")
		for _, name := range info.Names {
			fmt.Fprintf(w, "%s: children %v ancestors %v\n", name, info.Children[name], info.Ancestors(name))
		}
	}

	if s.FillBlanks {
		t = tabular.FillBlanks(t)
	}

	if s.Export != "" {
		if _, err := report.Export(t, s.Export, ropts); err != nil {
			return err
		}
	}

	if s.ExtractPercent != "" {
		if _, err := report.ExtractPercent(t, pct.low, pct.high, pct.file, ropts); err != nil {
			return err
		}
	}

	if s.Summarize {
		if err := report.Summarize(w, t); err != nil {
			return err
		}
	}

	if s.ByOutfit {
		if _, err := report.ByOutfit(t, ropts); err != nil {
			return err
		}
	}

	if len(s.PlotTimeSeries) > 0 {
		if _, err := report.PlotTimeSeries(t, s.PlotTimeSeries, ropts); err != nil {
			return err
		}
	}
	return nil
}
