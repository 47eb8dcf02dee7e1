// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc wraps the PDF engines behind narrow adapters: wrapping an
// image as a PDF page, rasterizing pages, extracting text, and merging
// documents.
package pdfdoc

import (
	"fmt"
	"os"

	gopdf "github.com/VantageDataChat/GoPDF2"

	"github.com/pdiddy/docconv/pkg/types"
)

// pointsPerInch is the native PDF user-space resolution.
const pointsPerInch = 72.0

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (n int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return 0, fmt.Errorf("%w: %s is not a PDF file", types.ErrConversion, path)
	}

	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: parsing %s: %v", types.ErrConversion, path, r)
		}
	}()
	n, err = gopdf.GetSourcePDFPageCountFromBytes(data)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %s: %w", types.ErrConversion, path, err)
	}
	return n, nil
}
