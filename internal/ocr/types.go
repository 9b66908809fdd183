// Package ocr defines the recognition engine contract and its Tesseract
// implementations.
package ocr

import (
	"context"
	"strings"
)

// Input is a single image submitted for recognition.
type Input struct {
	// ID is echoed back in the Result; the extraction service uses the image path.
	ID string
	// Image is PNG-encoded.
	Image     []byte
	Languages []string
	// PSM is the Tesseract page segmentation mode; negative means engine default.
	PSM int
	// Metadata passes engine specific variables through (e.g. tessedit_char_whitelist).
	Metadata map[string]string
}

// Result is the recognized text for one Input.
type Result struct {
	InputID   string
	PlainText string
	Engine    string
}

// IsEmpty reports whether nothing but whitespace was recognized.
func (r Result) IsEmpty() bool {
	return strings.TrimSpace(r.PlainText) == ""
}

// Engine turns one image into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// cleanOutput drops the page separator and trailing blank lines tesseract appends.
func cleanOutput(text string) string {
	return strings.TrimRight(text, " \t\r\n\f")
}
