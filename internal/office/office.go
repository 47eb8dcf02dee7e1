// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office converts office documents to PDF by running an office
// suite in headless batch mode.
package office

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docconv/internal/command"
	"github.com/pdiddy/docconv/internal/naming"
	"github.com/pdiddy/docconv/pkg/types"
)

const (
	binSoffice     = "soffice"
	binLibreOffice = "libreoffice"
)

// Converter runs the office suite found on PATH.
type Converter struct {
	runner  command.Runner
	bin     string
	path    string
	timeout time.Duration
	log     zerolog.Logger
}

// Detect looks for soffice first, then libreoffice. The returned Converter
// reports Available() == false when neither is on PATH.
func Detect(r command.Runner, timeout time.Duration, log zerolog.Logger) *Converter {
	c := &Converter{runner: r, timeout: timeout, log: log}
	if name, path, err := command.FindFirst(r, binSoffice, binLibreOffice); err == nil {
		c.bin, c.path = name, path
	}
	return c
}

// Name returns the executable name, or "" when none was found.
func (c *Converter) Name() string { return c.bin }

// Available reports whether an office suite was found.
func (c *Converter) Available() bool { return c.path != "" }

// ToPDF converts inputPath into a PDF inside outDir and returns the path of
// the produced file. The office suite names its output after the input's
// base name; the extension is matched case-insensitively.
func (c *Converter) ToPDF(ctx context.Context, inputPath, outDir string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("%w: office suite not found (install LibreOffice: %s or %s on PATH)",
			types.ErrMissingDependency, binSoffice, binLibreOffice)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", outDir, err)
	}

	cmd := command.Cmd{
		Name: c.path,
		Args: []string{
			"--headless", "--nologo", "--nolockcheck", "--norestore",
			"--convert-to", "pdf", "--outdir", outDir, inputPath,
		},
		Timeout: c.timeout,
	}
	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		msg := out.Message()
		if msg == "" || errors.Is(err, command.ErrTimeout) {
			msg = strings.TrimSpace(msg + " " + err.Error())
		}
		return "", fmt.Errorf("%w: %s: %s", types.ErrConversion, c.bin, msg)
	}

	produced, err := findOutput(outDir, naming.Stem(inputPath))
	if err != nil {
		return "", fmt.Errorf("%w: %s ran but %w", types.ErrConversion, c.bin, err)
	}
	c.log.Debug().Str("office", c.bin).Str("output", produced).Msg("office conversion done")
	return produced, nil
}

// findOutput locates stem.pdf in dir, accepting any case of the extension.
func findOutput(dir, stem string) (string, error) {
	exact := filepath.Join(dir, stem+".pdf")
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if strings.EqualFold(ext, ".pdf") && strings.TrimSuffix(name, ext) == stem {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("no %s.pdf found in %s", stem, dir)
}
