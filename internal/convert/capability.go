// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "fmt"

// Capability is one optional engine-backed feature.
type Capability string

const (
	CapTextExtraction   Capability = "pdf text extraction"
	CapRasterization    Capability = "pdf rasterization"
	CapOfficeConversion Capability = "office conversion"
	CapMerging          Capability = "pdf merging"
)

// AllCapabilities lists the capabilities in display order.
var AllCapabilities = []Capability{CapTextExtraction, CapRasterization, CapOfficeConversion, CapMerging}

// Status is the probe result for one capability.
type Status struct {
	Available bool   `json:"available" yaml:"available"`
	Engine    string `json:"engine,omitempty" yaml:"engine,omitempty"`
}

// Probe maps every capability to its status. It is computed once when the
// dispatcher is built.
type Probe map[Capability]Status

// probeEngines asks each adapter whether it can run.
func probeEngines(e Engines) Probe {
	return Probe{
		CapTextExtraction:   status(e.Text),
		CapRasterization:    status(e.Rasterizer),
		CapOfficeConversion: status(e.Office),
		CapMerging:          status(e.Merger),
	}
}

func status(a availability) Status {
	if a == nil {
		return Status{}
	}
	return Status{Available: a.Available(), Engine: a.Name()}
}

// Has reports whether c is available.
func (p Probe) Has(c Capability) bool {
	return p[c].Available
}

// Missing returns warnings for every unavailable capability.
func (p Probe) Missing() []string {
	var out []string
	for _, c := range AllCapabilities {
		if !p.Has(c) {
			out = append(out, fmt.Sprintf("%s unavailable: %s", c, missingHint[c]))
		}
	}
	return out
}

var missingHint = map[Capability]string{
	CapTextExtraction:   "PDF to txt needs the PDF text engine",
	CapRasterization:    "PDF to image needs pdftoppm (poppler-utils) or mutool (mupdf-tools)",
	CapOfficeConversion: "office to PDF needs LibreOffice (soffice or libreoffice on PATH)",
	CapMerging:          "merging PDFs needs the PDF writer",
}

// required maps routes to the capability they need. Routes not listed need
// none.
var required = map[Route]Capability{
	RouteText:      CapTextExtraction,
	RouteRasterize: CapRasterization,
	RouteOfficePDF: CapOfficeConversion,
}
