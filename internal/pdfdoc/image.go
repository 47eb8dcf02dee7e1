// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"

	gopdf "github.com/VantageDataChat/GoPDF2"

	"github.com/pdiddy/docconv/internal/raster"
	"github.com/pdiddy/docconv/pkg/types"
)

// ImageDPI is the reference resolution used to size an image page.
const ImageDPI = 300.0

// ImageToPDF writes the image at src as a single-page PDF at dst. The image
// is always flattened onto white, and the page measures the image's pixel
// size at ImageDPI.
func ImageToPDF(src, dst string) error {
	img, err := raster.Open(src)
	if err != nil {
		return err
	}
	flat := raster.Flatten(img)

	b := flat.Bounds()
	w := float64(b.Dx()) * pointsPerInch / ImageDPI
	h := float64(b.Dy()) * pointsPerInch / ImageDPI

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: w, H: h}})
	pdf.AddPage()
	if err := pdf.ImageFrom(flat, 0, 0, &gopdf.Rect{W: w, H: h}); err != nil {
		return fmt.Errorf("%w: embedding %s: %w", types.ErrConversion, src, err)
	}
	if err := pdf.WritePdf(dst); err != nil {
		os.Remove(dst)
		return fmt.Errorf("%w: writing %s: %w", types.ErrConversion, dst, err)
	}
	return nil
}
