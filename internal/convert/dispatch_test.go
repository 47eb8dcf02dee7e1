// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docconv/pkg/types"
)

func jobFor(t *testing.T, input string, format types.Format) types.ConversionJob {
	t.Helper()
	return NewJob(input, types.OutputOptions{
		Dir:       filepath.Join(t.TempDir(), "out"),
		Format:    format,
		DPI:       types.DefaultDPI,
		Quality:   types.DefaultQuality,
		Subfolder: true,
	})
}

func TestDispatchSelectsOneAdapter(t *testing.T) {
	tests := []struct {
		input   string
		format  types.Format
		adapter string
	}{
		{"doc.pdf", types.FormatTXT, "text"},
		{"photo.png", types.FormatPDF, "image-pdf"},
		{"report.docx", types.FormatPDF, "office"},
		{"doc.pdf", types.FormatJPG, "rasterizer"},
		{"photo.png", types.FormatWebP, "images"},
	}
	for _, tt := range tests {
		t.Run(tt.input+" to "+string(tt.format), func(t *testing.T) {
			c := calls{}
			d := newFakeDispatcher(c)
			input := writeFile(t, filepath.Join(t.TempDir(), tt.input), "data")

			res := d.Dispatch(context.Background(), jobFor(t, input, tt.format))
			require.True(t, res.OK, res.Error)
			assert.Equal(t, 1, c[tt.adapter])
			assert.Equal(t, 1, total(c))
		})
	}
}

func TestDispatchPDFCopy(t *testing.T) {
	c := calls{}
	d := newFakeDispatcher(c)
	input := writeFile(t, filepath.Join(t.TempDir(), "doc.pdf"), "%PDF-1.4 body")
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(input, mtime, mtime))

	job := jobFor(t, input, types.FormatPDF)
	outputs, err := d.Convert(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(job.OutputDir, "doc.pdf")}, outputs)

	data, err := os.ReadFile(outputs[0])
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	info, err := os.Stat(outputs[0])
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
	assert.Zero(t, total(c))
}

func TestCopyFileOntoItself(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "doc.pdf"), "content")
	require.NoError(t, copyFile(path, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestDispatchUnsupportedCreatesNothing(t *testing.T) {
	c := calls{}
	d := newFakeDispatcher(c)
	input := writeFile(t, filepath.Join(t.TempDir(), "photo.png"), "data")
	job := jobFor(t, input, types.FormatTXT)

	res := d.Dispatch(context.Background(), job)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "unsupported conversion")
	assert.Zero(t, total(c))

	_, err := os.Stat(job.OutputDir)
	assert.True(t, os.IsNotExist(err))
}

func TestDispatchOfficeRename(t *testing.T) {
	c := calls{}
	d := newFakeDispatcher(c)
	input := writeFile(t, filepath.Join(t.TempDir(), "Q3: report.docx"), "data")

	job := jobFor(t, input, types.FormatPDF)
	outputs, err := d.Convert(context.Background(), job)
	require.NoError(t, err)

	want := filepath.Join(job.OutputDir, "Q3_ report.pdf")
	assert.Equal(t, []string{want}, outputs)
	assert.FileExists(t, want)
	assert.NoFileExists(t, filepath.Join(job.OutputDir, "Q3: report.pdf"))
}

func TestDispatchOfficeReplacesExisting(t *testing.T) {
	c := calls{}
	d := newFakeDispatcher(c)
	input := writeFile(t, filepath.Join(t.TempDir(), "a|b.docx"), "data")

	job := jobFor(t, input, types.FormatPDF)
	writeFile(t, filepath.Join(job.OutputDir, "a_b.pdf"), "stale")

	outputs, err := d.Convert(context.Background(), job)
	require.NoError(t, err)
	data, err := os.ReadFile(outputs[0])
	require.NoError(t, err)
	assert.Equal(t, "%PDF-office", string(data))
}

func TestDispatchOfficeFailure(t *testing.T) {
	c := calls{}
	e := fakeEngines(c)
	e.Office = fakeOffice{calls: c, available: true, err: types.ErrConversion}
	d := NewDispatcher(e, zerolog.Nop())
	input := writeFile(t, filepath.Join(t.TempDir(), "report.docx"), "data")

	_, err := d.Convert(context.Background(), jobFor(t, input, types.FormatPDF))
	assert.ErrorIs(t, err, types.ErrConversion)
}

func TestDispatchRasterizedPageNames(t *testing.T) {
	c := calls{}
	d := newFakeDispatcher(c)
	input := writeFile(t, filepath.Join(t.TempDir(), "deck.pdf"), "data")

	job := jobFor(t, input, types.FormatPNG)
	outputs, err := d.Convert(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(job.OutputDir, "deck-001.png"),
		filepath.Join(job.OutputDir, "deck-002.png"),
		filepath.Join(job.OutputDir, "deck-003.png"),
	}, outputs)
}

func TestDispatchMissingDependency(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format types.Format
		hint   string
	}{
		{"rasterizer", "doc.pdf", types.FormatPNG, "pdftoppm"},
		{"office", "report.docx", types.FormatPDF, "LibreOffice"},
		{"text", "doc.pdf", types.FormatTXT, "text engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calls{}
			e := fakeEngines(c)
			e.Rasterizer = fakeRasterizer{calls: c}
			e.Office = fakeOffice{calls: c}
			e.Text = fakeText{calls: c}
			d := NewDispatcher(e, zerolog.Nop())
			input := writeFile(t, filepath.Join(t.TempDir(), tt.input), "data")

			_, err := d.Convert(context.Background(), jobFor(t, input, tt.format))
			assert.ErrorIs(t, err, types.ErrMissingDependency)
			assert.Contains(t, err.Error(), tt.hint)
			assert.Zero(t, total(c))
		})
	}
}

func TestProbeMissing(t *testing.T) {
	c := calls{}
	e := fakeEngines(c)
	e.Office = fakeOffice{calls: c}
	d := NewDispatcher(e, zerolog.Nop())

	p := d.Probe()
	assert.True(t, p.Has(CapRasterization))
	assert.False(t, p.Has(CapOfficeConversion))
	assert.Equal(t, "fake-office", p[CapOfficeConversion].Engine)

	missing := p.Missing()
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0], "LibreOffice")
}

func TestNewJob(t *testing.T) {
	opts := types.OutputOptions{Dir: "/out", Format: types.FormatJPG, DPI: 150, Quality: 80}

	job := NewJob("/in/My*File.PDF", opts)
	assert.Equal(t, ".pdf", job.InputExt)
	assert.Equal(t, "My_File", job.BaseName)
	assert.Equal(t, "/out", job.OutputDir)
	assert.Equal(t, 150, job.DPI)

	opts.Subfolder = true
	assert.Equal(t, filepath.Join("/out", "My_File"), NewJob("/in/My*File.PDF", opts).OutputDir)
}
