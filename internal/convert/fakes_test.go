// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docconv/internal/naming"
	"github.com/pdiddy/docconv/pkg/types"
)

// calls counts adapter invocations by name.
type calls map[string]int

type fakeImages struct{ calls calls }

func (f fakeImages) Convert(src, dst string, format types.Format, quality int) error {
	f.calls["images"]++
	return os.WriteFile(dst, []byte("img:"+string(format)), 0o644)
}

type fakeWrapper struct{ calls calls }

func (f fakeWrapper) ImageToPDF(src, dst string) error {
	f.calls["image-pdf"]++
	return os.WriteFile(dst, []byte("%PDF-image"), 0o644)
}

type fakeRasterizer struct {
	calls     calls
	available bool
	pages     int
}

func (f fakeRasterizer) Name() string    { return "fake-raster" }
func (f fakeRasterizer) Available() bool { return f.available }

func (f fakeRasterizer) Rasterize(_ context.Context, _, outDir string, format types.Format, _, _ int, prefix string) ([]string, error) {
	f.calls["rasterizer"]++
	var out []string
	for p := 1; p <= f.pages; p++ {
		path := filepath.Join(outDir, naming.PageFile(prefix, p, string(format)))
		if err := os.WriteFile(path, []byte("page"), 0o644); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}

type fakeText struct {
	calls     calls
	available bool
}

func (f fakeText) Name() string    { return "fake-text" }
func (f fakeText) Available() bool { return f.available }

func (f fakeText) Extract(_, out string) error {
	f.calls["text"]++
	return os.WriteFile(out, []byte("hello"), 0o644)
}

// fakeOffice writes <stem>.pdf the way LibreOffice does, using the raw
// input stem rather than the sanitized one.
type fakeOffice struct {
	calls     calls
	available bool
	err       error
}

func (f fakeOffice) Name() string    { return "fake-office" }
func (f fakeOffice) Available() bool { return f.available }

func (f fakeOffice) ToPDF(_ context.Context, input, outDir string) (string, error) {
	f.calls["office"]++
	if f.err != nil {
		return "", f.err
	}
	out := filepath.Join(outDir, naming.Stem(input)+".pdf")
	return out, os.WriteFile(out, []byte("%PDF-office"), 0o644)
}

type fakeMerger struct {
	calls     calls
	available bool
	inputs    *[]string
}

func (f fakeMerger) Name() string    { return "fake-merge" }
func (f fakeMerger) Available() bool { return f.available }

func (f fakeMerger) Merge(inputs []string, out string) error {
	f.calls["merger"]++
	if f.inputs != nil {
		*f.inputs = append([]string(nil), inputs...)
	}
	var parts []string
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return errors.Join(types.ErrConversion, err)
		}
		parts = append(parts, string(data))
	}
	return os.WriteFile(out, []byte(strings.Join(parts, "|")), 0o644)
}

// newFakeDispatcher returns a dispatcher where every engine is available.
func newFakeDispatcher(c calls) *Dispatcher {
	return NewDispatcher(fakeEngines(c), zerolog.Nop())
}

func fakeEngines(c calls) Engines {
	return Engines{
		Images:     fakeImages{calls: c},
		ImagePDF:   fakeWrapper{calls: c},
		Rasterizer: fakeRasterizer{calls: c, available: true, pages: 3},
		Text:       fakeText{calls: c, available: true},
		Office:     fakeOffice{calls: c, available: true},
		Merger:     fakeMerger{calls: c, available: true},
	}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func total(c calls) int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
