// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

const (
	MinDPI     = 72
	MaxDPI     = 600
	MinQuality = 40
	MaxQuality = 100

	DefaultDPI     = 200
	DefaultQuality = 90
)

// OutputOptions are the settings of one "convert all" run. They are not
// persisted between runs.
type OutputOptions struct {
	// Dir is the output base directory.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Format is the requested output format.
	Format Format `json:"format" yaml:"format" mapstructure:"format"`

	// DPI is the PDF rasterization resolution.
	DPI int `json:"dpi" yaml:"dpi" mapstructure:"dpi"`

	// Quality applies to jpg and webp output only.
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`

	// Subfolder nests each file's output under a folder named after it.
	Subfolder bool `json:"subfolder" yaml:"subfolder" mapstructure:"subfolder"`
}

// Validate checks the format enumeration and the numeric ranges.
func (o OutputOptions) Validate() error {
	if o.Dir == "" {
		return fmt.Errorf("output directory is required")
	}
	if !o.Format.Valid() {
		_, err := ParseFormat(string(o.Format))
		return err
	}
	if o.DPI < MinDPI || o.DPI > MaxDPI {
		return fmt.Errorf("dpi %d out of range %d..%d", o.DPI, MinDPI, MaxDPI)
	}
	if o.Quality < MinQuality || o.Quality > MaxQuality {
		return fmt.Errorf("quality %d out of range %d..%d", o.Quality, MinQuality, MaxQuality)
	}
	return nil
}

// ConversionJob describes the conversion of one queued file. It is built
// when the batch reaches the file and is not modified afterwards.
type ConversionJob struct {
	InputPath string
	InputExt  string
	Format    Format
	OutputDir string
	DPI       int
	Quality   int
	// BaseName is the sanitized input stem used to name outputs.
	BaseName string
}

// ConversionResult is the outcome of one job.
type ConversionResult struct {
	Input   string   `json:"input" yaml:"input"`
	OK      bool     `json:"ok" yaml:"ok"`
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}
