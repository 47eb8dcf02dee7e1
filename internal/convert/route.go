// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdiddy/docconv/pkg/types"
)

// Route names the adapter that handles one input/output pair.
type Route string

const (
	RouteCopy       Route = "copy"
	RouteImageToPDF Route = "image-to-pdf"
	RouteOfficePDF  Route = "office-to-pdf"
	RouteRasterize  Route = "pdf-to-image"
	RouteImage      Route = "image-to-image"
	RouteText       Route = "pdf-to-text"
)

// Resolve picks the route for an input extension (lower case, with dot)
// and an output format.
func Resolve(ext string, format types.Format) (Route, error) {
	class := types.ClassifyExt(ext)

	switch {
	case format == types.FormatTXT:
		if class == types.ClassPDF {
			return RouteText, nil
		}
		return "", fmt.Errorf("%w: txt output is only available for PDF input", types.ErrUnsupportedConversion)

	case format == types.FormatPDF:
		switch class {
		case types.ClassPDF:
			return RouteCopy, nil
		case types.ClassImage:
			return RouteImageToPDF, nil
		case types.ClassOffice:
			return RouteOfficePDF, nil
		}
		return "", fmt.Errorf("%w: %q files cannot become PDF (use office, image, or PDF input)",
			types.ErrUnsupportedConversion, ext)

	case format.IsRaster():
		switch class {
		case types.ClassPDF:
			return RouteRasterize, nil
		case types.ClassImage:
			return RouteImage, nil
		case types.ClassOffice:
			return "", fmt.Errorf("%w: office to image is not available, convert to pdf instead",
				types.ErrUnsupportedConversion)
		}
		return "", fmt.Errorf("%w: %q files cannot become %s", types.ErrUnsupportedConversion, ext, format)
	}

	return "", fmt.Errorf("%w: unknown output format %q", types.ErrUnsupportedConversion, format)
}
