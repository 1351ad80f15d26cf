// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package export encodes canvas images to common file formats.
package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/tiff"
)

// Format identifies an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	default:
		return ""
	}
}

// FormatForPath picks a format from a file path's extension.
func FormatForPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return PNG, nil
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return JPEG, nil
	case strings.HasSuffix(lower, ".tif"), strings.HasSuffix(lower, ".tiff"):
		return TIFF, nil
	}
	return 0, fmt.Errorf("export: no format for path %q", path)
}

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 92

// Options tunes encoding.
type Options struct {
	// JPEGQuality in [1,100]. Zero selects DefaultJPEGQuality.
	// Ignored by other formats.
	JPEGQuality int
}

// Encode writes img to w in the given format. JPEG discards alpha;
// transparent pixels composite onto black.
func Encode(w io.Writer, img image.Image, format Format, opts Options) error {
	switch format {
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("export: png: %w", err)
		}
	case JPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("export: jpeg: %w", err)
		}
	case TIFF:
		err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		if err != nil {
			return fmt.Errorf("export: tiff: %w", err)
		}
	default:
		return fmt.Errorf("export: unknown format %v", format)
	}
	return nil
}
