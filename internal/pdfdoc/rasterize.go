// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docconv/internal/command"
	"github.com/pdiddy/docconv/internal/naming"
	"github.com/pdiddy/docconv/internal/raster"
	"github.com/pdiddy/docconv/pkg/types"
)

const (
	binPdftoppm = "pdftoppm"
	binMutool   = "mutool"
)

// RenderScale is the zoom factor from PDF points to pixels at dpi.
func RenderScale(dpi int) float64 {
	return float64(dpi) / pointsPerInch
}

// engine renders one page of a PDF to an opaque PNG.
type engine struct {
	bin  string
	args func(pdfPath string, page, dpi int, pngPath string) []string
}

var engines = []engine{
	{
		bin: binPdftoppm,
		args: func(pdfPath string, page, dpi int, pngPath string) []string {
			p, r := strconv.Itoa(page), strconv.Itoa(dpi)
			return []string{"-f", p, "-l", p, "-r", r, "-png", "-singlefile",
				pdfPath, strings.TrimSuffix(pngPath, ".png")}
		},
	},
	{
		bin: binMutool,
		args: func(pdfPath string, page, dpi int, pngPath string) []string {
			return []string{"draw", "-r", strconv.Itoa(dpi), "-c", "rgb", "-F", "png",
				"-o", pngPath, pdfPath, strconv.Itoa(page)}
		},
	},
}

// Rasterizer renders PDF pages to raster images through an external
// engine: pdftoppm (poppler) when present, otherwise mutool (MuPDF).
type Rasterizer struct {
	runner  command.Runner
	engine  *engine
	path    string
	timeout time.Duration
	log     zerolog.Logger

	// pageCount is swapped in tests.
	pageCount func(string) (int, error)
}

// NewRasterizer probes PATH for a rendering engine. The returned
// Rasterizer reports Available() == false when none is found.
func NewRasterizer(r command.Runner, timeout time.Duration, log zerolog.Logger) *Rasterizer {
	rz := &Rasterizer{runner: r, timeout: timeout, log: log, pageCount: PageCount}
	for i := range engines {
		if p, err := r.LookPath(engines[i].bin); err == nil {
			rz.engine = &engines[i]
			rz.path = p
			break
		}
	}
	return rz
}

// Name returns the engine binary, or "" when none was found.
func (rz *Rasterizer) Name() string {
	if rz.engine == nil {
		return ""
	}
	return rz.engine.bin
}

// Available reports whether a rendering engine was found.
func (rz *Rasterizer) Available() bool { return rz.engine != nil }

// Rasterize renders every page of pdfPath into outDir as
// prefix-NNN.format, pages numbered from 1. Pages are rendered to PNG and
// re-encoded when another format is requested; the intermediate PNG is then
// removed on a best-effort basis.
func (rz *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir string, format types.Format, dpi, quality int, prefix string) ([]string, error) {
	if !rz.Available() {
		return nil, fmt.Errorf("%w: no PDF rasterizer found (install %s or %s)",
			types.ErrMissingDependency, binPdftoppm, binMutool)
	}
	if !format.IsRaster() {
		return nil, fmt.Errorf("%w: %s is not a raster format", types.ErrUnsupportedConversion, format)
	}

	pages, err := rz.pageCount(pdfPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}

	rz.log.Debug().Str("engine", rz.engine.bin).Int("pages", pages).
		Float64("scale", RenderScale(dpi)).Msg("rasterizing " + pdfPath)

	outputs := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		png := filepath.Join(outDir, naming.PageFile(prefix, page, string(types.FormatPNG)))
		if err := rz.renderPage(ctx, pdfPath, page, dpi, png); err != nil {
			return outputs, err
		}
		if format == types.FormatPNG {
			outputs = append(outputs, png)
			continue
		}

		dst := filepath.Join(outDir, naming.PageFile(prefix, page, string(format)))
		if err := raster.Convert(png, dst, format, quality); err != nil {
			return outputs, err
		}
		if err := os.Remove(png); err != nil {
			rz.log.Warn().Err(err).Msg("could not remove intermediate " + png)
		}
		outputs = append(outputs, dst)
	}
	return outputs, nil
}

func (rz *Rasterizer) renderPage(ctx context.Context, pdfPath string, page, dpi int, png string) error {
	cmd := command.Cmd{
		Name:    rz.path,
		Args:    rz.engine.args(pdfPath, page, dpi, png),
		Timeout: rz.timeout,
	}
	out, err := rz.runner.Run(ctx, cmd)
	if err != nil {
		msg := out.Message()
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s page %d: %s", types.ErrConversion, rz.engine.bin, page, msg)
	}
	if _, err := os.Stat(png); err != nil {
		return fmt.Errorf("%w: %s reported success but %s is missing", types.ErrConversion, rz.engine.bin, png)
	}
	return nil
}
