// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest writes small PDFs for tests.
package pdftest

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	gopdf "github.com/VantageDataChat/GoPDF2"
	"github.com/stretchr/testify/require"
)

// WritePDF writes a PDF with the given number of square pages of side size
// points to path.
func WritePDF(t *testing.T, path string, pages int, size float64) {
	t.Helper()
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: size, H: size}})
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Line(10, 10, size-10, size-10)
	}
	require.NoError(t, pdf.WritePdf(path))
}

// WritePNG writes a w x h PNG. When transparent is set, the right half of
// the image is fully transparent.
func WritePNG(t *testing.T, path string, w, h int, transparent bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 30, G: 90, B: 200, A: 255}
			if transparent && x >= w/2 {
				c = color.NRGBA{}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}
