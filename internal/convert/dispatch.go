// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert routes one input file to the adapter that produces the
// requested output format, and runs batches of files through it.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docconv/internal/command"
	"github.com/pdiddy/docconv/internal/naming"
	"github.com/pdiddy/docconv/internal/office"
	"github.com/pdiddy/docconv/internal/pdfdoc"
	"github.com/pdiddy/docconv/internal/raster"
	"github.com/pdiddy/docconv/pkg/types"
)

// availability is implemented by adapters backed by an optional engine.
type availability interface {
	Name() string
	Available() bool
}

// ImageCodec re-encodes an image file to a raster format.
type ImageCodec interface {
	Convert(src, dst string, format types.Format, quality int) error
}

// ImageWrapper writes an image as a single-page PDF.
type ImageWrapper interface {
	ImageToPDF(src, dst string) error
}

// PageRasterizer renders PDF pages to images.
type PageRasterizer interface {
	availability
	Rasterize(ctx context.Context, pdfPath, outDir string, format types.Format, dpi, quality int, prefix string) ([]string, error)
}

// TextExtractor writes the text of a PDF to a file.
type TextExtractor interface {
	availability
	Extract(pdfPath, outPath string) error
}

// OfficeConverter turns an office document into a PDF inside outDir.
type OfficeConverter interface {
	availability
	ToPDF(ctx context.Context, inputPath, outDir string) (string, error)
}

// PDFMerger concatenates PDFs.
type PDFMerger interface {
	availability
	Merge(inputs []string, out string) error
}

// Engines bundles the adapters the dispatcher routes to.
type Engines struct {
	Images     ImageCodec
	ImagePDF   ImageWrapper
	Rasterizer PageRasterizer
	Text       TextExtractor
	Office     OfficeConverter
	Merger     PDFMerger
}

// EngineConfig carries the settings used to build the default engines.
type EngineConfig struct {
	Runner       command.Runner
	OfficeConfig types.OfficeConfig
	RasterConfig types.RasterConfig
	Log          zerolog.Logger
}

type rasterCodec struct{}

func (rasterCodec) Convert(src, dst string, format types.Format, quality int) error {
	return raster.Convert(src, dst, format, quality)
}

type imageWrapper struct{}

func (imageWrapper) ImageToPDF(src, dst string) error { return pdfdoc.ImageToPDF(src, dst) }

// DefaultEngines builds the production adapters, probing PATH for the
// external tools.
func DefaultEngines(cfg EngineConfig) Engines {
	return Engines{
		Images:     rasterCodec{},
		ImagePDF:   imageWrapper{},
		Rasterizer: pdfdoc.NewRasterizer(cfg.Runner, cfg.RasterConfig.Timeout, cfg.Log),
		Text:       pdfdoc.TextExtractor{},
		Office:     office.Detect(cfg.Runner, cfg.OfficeConfig.Timeout, cfg.Log),
		Merger:     pdfdoc.Merger{},
	}
}

// Dispatcher selects and invokes the adapter for each job. Capabilities are
// probed once at construction; routes whose engine is missing fail with
// types.ErrMissingDependency without calling the adapter.
type Dispatcher struct {
	engines Engines
	probe   Probe
	log     zerolog.Logger
}

// NewDispatcher probes the engines and returns a Dispatcher.
func NewDispatcher(e Engines, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{engines: e, probe: probeEngines(e), log: log}
}

// Probe returns the capability probe taken at construction.
func (d *Dispatcher) Probe() Probe { return d.probe }

// Route resolves the route for job and checks that its engine is present.
func (d *Dispatcher) Route(job types.ConversionJob) (Route, error) {
	route, err := Resolve(job.InputExt, job.Format)
	if err != nil {
		return "", err
	}
	if c, ok := required[route]; ok && !d.probe.Has(c) {
		return route, fmt.Errorf("%w: %s", types.ErrMissingDependency, missingHint[c])
	}
	return route, nil
}

// Dispatch runs job and reports the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, job types.ConversionJob) types.ConversionResult {
	res := types.ConversionResult{Input: job.InputPath}
	outputs, err := d.Convert(ctx, job)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Outputs = outputs
	return res
}

// Convert runs job and returns the generated output paths. The output
// directory is created only once a route is found; the source file is never
// modified.
func (d *Dispatcher) Convert(ctx context.Context, job types.ConversionJob) ([]string, error) {
	route, err := d.Route(job)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", job.OutputDir, err)
	}

	d.log.Debug().Str("route", string(route)).Str("input", job.InputPath).Msg("dispatching")

	switch route {
	case RouteText:
		out := filepath.Join(job.OutputDir, job.BaseName+".txt")
		if err := d.engines.Text.Extract(job.InputPath, out); err != nil {
			return nil, err
		}
		return []string{out}, nil

	case RouteCopy:
		out := filepath.Join(job.OutputDir, job.BaseName+".pdf")
		if err := copyFile(job.InputPath, out); err != nil {
			return nil, err
		}
		return []string{out}, nil

	case RouteImageToPDF:
		out := filepath.Join(job.OutputDir, job.BaseName+".pdf")
		if err := d.engines.ImagePDF.ImageToPDF(job.InputPath, out); err != nil {
			return nil, err
		}
		return []string{out}, nil

	case RouteOfficePDF:
		produced, err := d.engines.Office.ToPDF(ctx, job.InputPath, job.OutputDir)
		if err != nil {
			return nil, err
		}
		return []string{d.canonicalize(produced, filepath.Join(job.OutputDir, job.BaseName+".pdf"))}, nil

	case RouteRasterize:
		return d.engines.Rasterizer.Rasterize(ctx, job.InputPath, job.OutputDir, job.Format, job.DPI, job.Quality, job.BaseName)

	case RouteImage:
		out := filepath.Join(job.OutputDir, job.BaseName+"."+string(job.Format))
		if err := d.engines.Images.Convert(job.InputPath, out, job.Format, job.Quality); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}
	return nil, fmt.Errorf("%w: no adapter for route %q", types.ErrUnsupportedConversion, route)
}

// Merge concatenates inputs into out when a merger is available.
func (d *Dispatcher) Merge(inputs []string, out string) error {
	if !d.probe.Has(CapMerging) {
		return fmt.Errorf("%w: %s", types.ErrMissingDependency, missingHint[CapMerging])
	}
	return d.engines.Merger.Merge(inputs, out)
}

// canonicalize renames the office output to the canonical name, replacing
// any file already there. When the rename fails the produced path is kept.
func (d *Dispatcher) canonicalize(produced, canonical string) string {
	if produced == canonical {
		return produced
	}
	if !sameFile(produced, canonical) {
		if err := os.Remove(canonical); err != nil && !errors.Is(err, os.ErrNotExist) {
			d.log.Warn().Err(err).Msg("could not replace " + canonical)
			return produced
		}
	}
	if err := os.Rename(produced, canonical); err != nil {
		d.log.Warn().Err(err).Msg("could not rename " + produced)
		return produced
	}
	return canonical
}

// copyFile copies src to dst byte for byte and carries over the
// modification time. Copying a file onto itself is a no-op.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if sameFile(src, dst) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("setting times on %s: %w", dst, err)
	}
	return nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// NewJob builds the job for one queued path under opts.
func NewJob(path string, opts types.OutputOptions) types.ConversionJob {
	base := naming.BaseName(path)
	dir := opts.Dir
	if opts.Subfolder {
		dir = filepath.Join(opts.Dir, base)
	}
	return types.ConversionJob{
		InputPath: path,
		InputExt:  types.Ext(path),
		Format:    opts.Format,
		OutputDir: dir,
		DPI:       opts.DPI,
		Quality:   opts.Quality,
		BaseName:  base,
	}
}
