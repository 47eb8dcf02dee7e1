// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared between the conversion stages and the
// CLI: output formats, input classes, options, jobs, results, and config.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a user-selectable output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatTXT  Format = "txt"
)

// OutputFormats lists every output format in presentation order.
var OutputFormats = []Format{
	FormatPDF, FormatJPG, FormatPNG, FormatWebP, FormatTIFF, FormatBMP, FormatTXT,
}

// ParseFormat normalizes s and returns the matching Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.Valid() {
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q: use one of %s", s, formatList())
}

// Valid reports whether f belongs to the output format enumeration.
func (f Format) Valid() bool {
	for _, o := range OutputFormats {
		if f == o {
			return true
		}
	}
	return false
}

// IsRaster reports whether f is one of the raster image formats.
func (f Format) IsRaster() bool {
	switch f {
	case FormatJPG, FormatPNG, FormatWebP, FormatTIFF, FormatBMP:
		return true
	}
	return false
}

// IsLossy reports whether the quality setting applies to f.
func (f Format) IsLossy() bool {
	return f == FormatJPG || f == FormatWebP
}

// SupportsAlpha reports whether f can store transparency.
func (f Format) SupportsAlpha() bool {
	return f != FormatJPG && f != FormatPDF && f != FormatTXT
}

func formatList() string {
	names := make([]string, len(OutputFormats))
	for i, f := range OutputFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// InputClass groups input extensions by the adapter family that reads them.
type InputClass string

const (
	ClassPDF     InputClass = "pdf"
	ClassImage   InputClass = "image"
	ClassOffice  InputClass = "office"
	ClassUnknown InputClass = "unknown"
)

var officeExts = map[string]bool{
	".doc": true, ".docx": true, ".odt": true, ".rtf": true, ".txt": true,
	".xls": true, ".xlsx": true, ".ods": true, ".csv": true,
	".ppt": true, ".pptx": true, ".odp": true,
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".tif": true,
	".tiff": true, ".bmp": true, ".gif": true, ".heic": true, ".heif": true,
}

// Ext returns the lower-cased extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ClassifyExt maps a lower-cased extension (with dot) to its input class.
func ClassifyExt(ext string) InputClass {
	switch {
	case ext == ".pdf":
		return ClassPDF
	case imageExts[ext]:
		return ClassImage
	case officeExts[ext]:
		return ClassOffice
	default:
		return ClassUnknown
	}
}
