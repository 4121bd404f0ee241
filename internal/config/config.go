// Copyright 2026 The Perfstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads perfstats settings from an optional
// configuration file and the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/viewerperf/perfstats/report"
)

// EnvPrefix prefixes the environment variables that override
// settings, as in PERFSTATS_MIN_FRAMES.
const EnvPrefix = "PERFSTATS"

// DefaultTimerFile is the trace read for the timer hierarchy when the
// input is a CSV file.
const DefaultTimerFile = "performance.slp"

// Config holds the settings that may come from a file. Command-line
// flags take precedence over it.
type Config struct {
	// Fields, Timers and ChildTimers are the requested fields,
	// as by the -fields, -timers and -child_timers flags.
	Fields      []string `mapstructure:"fields"`
	Timers      []string `mapstructure:"timers"`
	ChildTimers []string `mapstructure:"child_timers"`

	TimeColumn   string `mapstructure:"time_column"`
	OutfitColumn string `mapstructure:"outfit_column"`
	CostColumn   string `mapstructure:"cost_column"`
	MinFrames    int    `mapstructure:"min_frames"`

	OutDir    string `mapstructure:"outdir"`
	TimerFile string `mapstructure:"timer_file"`
	HTML      string `mapstructure:"html"`
}

// Load reads the configuration file path, which may be YAML, TOML or
// JSON as told by its extension. An empty path selects the defaults.
// Environment variables with prefix EnvPrefix override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if cfg.MinFrames <= 0 {
		return nil, fmt.Errorf("config %s: min_frames must be positive, got %d", path, cfg.MinFrames)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fields", []string{})
	v.SetDefault("timers", []string{})
	v.SetDefault("child_timers", []string{})
	v.SetDefault("time_column", report.DefaultTimeColumn)
	v.SetDefault("outfit_column", report.DefaultOutfitColumn)
	v.SetDefault("cost_column", report.DefaultCostColumn)
	v.SetDefault("min_frames", report.DefaultMinFrames)
	v.SetDefault("outdir", ".")
	v.SetDefault("timer_file", DefaultTimerFile)
	v.SetDefault("html", "")
}

// ReportOptions returns the report options selected by c.
func (c *Config) ReportOptions() *report.Options {
	return &report.Options{
		OutDir:       c.OutDir,
		MinFrames:    c.MinFrames,
		TimeColumn:   c.TimeColumn,
		OutfitColumn: c.OutfitColumn,
		CostColumn:   c.CostColumn,
		HTML:         c.HTML,
	}
}
