// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds shared by every adapter. Adapters wrap these so callers can
// classify a failure with errors.Is.
var (
	// ErrUnsupportedConversion means no adapter handles the input/output pair.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrMissingDependency means a required engine or tool is not available.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrConversion means an adapter ran and failed.
	ErrConversion = errors.New("conversion error")
)
