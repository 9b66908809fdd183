//go:build !tesseract_lib

package ocr

import (
	"fmt"

	"image-text-extractor/internal/apperr"
)

const LibraryEnabled = false

// NewLibraryEngine fails unless the binary was built with -tags tesseract_lib.
func NewLibraryEngine() (Engine, error) {
	return nil, fmt.Errorf("in-process tesseract: %w; rebuild with -tags tesseract_lib", apperr.ErrNotEnabled)
}
