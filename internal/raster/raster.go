// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster opens images and re-encodes them to the raster output
// formats, flattening transparency onto white for formats without alpha.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/heic"
	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/docconv/pkg/types"
)

// webpMethod trades encoding speed for size; 6 is the slowest and smallest.
const webpMethod = 6

// Open decodes the image at path. Orientation metadata is ignored so the
// decoded dimensions match the stored pixels.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", types.ErrConversion, path, err)
	}
	return img, nil
}

// HasAlpha reports whether img has transparent pixels, either through an
// alpha channel or a transparent palette entry.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}

// Flatten composites img onto an opaque white background of the same size.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// Prepare applies the transparency policy for format: images with alpha are
// flattened when format cannot store it.
func Prepare(img image.Image, format types.Format) image.Image {
	if !format.SupportsAlpha() && HasAlpha(img) {
		return Flatten(img)
	}
	return img
}

// Encode writes img to w in format. Quality applies to jpg and webp only.
func Encode(w io.Writer, img image.Image, format types.Format, quality int) error {
	img = Prepare(img, format)
	switch format {
	case types.FormatJPG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case types.FormatPNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case types.FormatWebP:
		return webp.Encode(w, img, webp.Options{Quality: quality, Method: webpMethod})
	case types.FormatTIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case types.FormatBMP:
		return imaging.Encode(w, img, imaging.BMP)
	default:
		return fmt.Errorf("%w: %s is not a raster format", types.ErrUnsupportedConversion, format)
	}
}

// Convert decodes src and writes it to dst in format. The destination
// directory is created when missing; a partially written dst is removed on
// failure.
func Convert(src, dst string, format types.Format, quality int) error {
	if !format.IsRaster() {
		return fmt.Errorf("%w: %s is not a raster format", types.ErrUnsupportedConversion, format)
	}
	img, err := Open(src)
	if err != nil {
		return err
	}
	return Save(img, dst, format, quality)
}

// Save encodes img into the file dst.
func Save(img image.Image, dst string, format types.Format, quality int) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := Encode(f, img, format, quality); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("%w: encoding %s: %w", types.ErrConversion, dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
