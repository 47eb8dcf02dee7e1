// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/docconv/pkg/types"
)

// pageSource yields the plain text of each page, numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type readerPages struct {
	r     *pdf.Reader
	fonts map[string]*pdf.Font
}

func (p *readerPages) NumPage() int { return p.r.NumPage() }

func (p *readerPages) PageText(n int) (string, error) {
	page := p.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	for _, name := range page.Fonts() {
		if _, ok := p.fonts[name]; !ok {
			f := page.Font(name)
			p.fonts[name] = &f
		}
	}
	return page.GetPlainText(p.fonts)
}

// TextExtractor pulls the text layer out of PDFs. Scanned pages without a
// text layer produce empty text.
type TextExtractor struct{}

// Name identifies the engine.
func (TextExtractor) Name() string { return "ledongthuc/pdf" }

// Available reports whether the engine can run. The engine is linked into
// the binary.
func (TextExtractor) Available() bool { return true }

// Extract writes the text of every page of pdfPath to outPath, pages in
// document order separated by a single newline. Invalid UTF-8 sequences are
// dropped.
func (TextExtractor) Extract(pdfPath, outPath string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: reading %s: %v", types.ErrConversion, pdfPath, rec)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", types.ErrConversion, pdfPath, err)
	}
	defer f.Close()

	text, err := joinPages(&readerPages{r: r, fonts: make(map[string]*pdf.Font)})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrConversion, pdfPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

func joinPages(src pageSource) (string, error) {
	n := src.NumPage()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		parts = append(parts, strings.ToValidUTF8(text, ""))
	}
	return strings.Join(parts, "\n"), nil
}
