// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/docconv/pkg/types"
)

func init() {
	// Use the built-in configuration instead of creating one under the
	// user's config directory.
	api.DisableConfigDir()
}

// Merger concatenates PDFs with pdfcpu.
type Merger struct{}

// Name identifies the engine.
func (Merger) Name() string { return "pdfcpu" }

// Available reports whether the engine can run. pdfcpu is linked into the
// binary.
func (Merger) Available() bool { return true }

// Merge appends the pages of each input, in order, into out. Bookmarks and
// metadata of the inputs are not reconciled.
func (Merger) Merge(inputs []string, out string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("merge needs at least one input PDF")
	}
	for _, in := range inputs {
		if sameFile(in, out) {
			return fmt.Errorf("merge output %s is also an input", out)
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(out), err)
	}
	if err := api.MergeCreateFile(inputs, out, false, nil); err != nil {
		os.Remove(out)
		return fmt.Errorf("%w: merging into %s: %w", types.ErrConversion, out, err)
	}
	return nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
