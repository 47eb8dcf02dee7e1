// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OfficeConfig holds settings for the office-suite converter.
type OfficeConfig struct {
	// Timeout bounds one office-suite invocation (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// RasterConfig holds settings for the PDF rasterizer.
type RasterConfig struct {
	// Timeout bounds one page render (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// MergeConfig holds settings for PDF merging.
type MergeConfig struct {
	// Name is the output file name (default "merged.pdf").
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

// HistoryConfig holds settings for the conversion journal.
type HistoryConfig struct {
	// Enabled turns journaling on (default true).
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups every setting read from docconv.yaml, the environment, and
// flags.
type Config struct {
	Output  OutputOptions `json:"output" yaml:"output" mapstructure:"output"`
	Merge   MergeConfig   `json:"merge" yaml:"merge" mapstructure:"merge"`
	Office  OfficeConfig  `json:"office" yaml:"office" mapstructure:"office"`
	Raster  RasterConfig  `json:"raster" yaml:"raster" mapstructure:"raster"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}
