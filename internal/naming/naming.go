// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming turns user-supplied file names into filesystem-safe output
// names.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fallbackName replaces a base name that sanitizes to nothing.
const fallbackName = "file"

var unsafeChars = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize replaces characters that are invalid in file names on common
// filesystems with underscores and trims surrounding whitespace. An empty
// result becomes "file".
func Sanitize(name string) string {
	name = strings.TrimSpace(unsafeChars.Replace(name))
	if name == "" {
		return fallbackName
	}
	return name
}

// Stem returns the file name of path without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BaseName returns the sanitized stem of path.
func BaseName(path string) string {
	return Sanitize(Stem(path))
}

// PageFile names the output of one rasterized page: prefix-001.png.
func PageFile(prefix string, page int, ext string) string {
	return fmt.Sprintf("%s-%03d.%s", prefix, page, ext)
}

// MergeFile normalizes a merge output name: the ".pdf" suffix is added when
// missing and the stem is sanitized.
func MergeFile(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return Sanitize(name[:len(name)-len(".pdf")]) + ".pdf"
}
