package config

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"image-text-extractor/internal/apperr"
)

// lookPath is swapped in tests to simulate a missing or present binary.
var lookPath = exec.LookPath

var tesseractCandidates = map[string][]string{
	"windows": {
		`C:\Program Files\Tesseract-OCR\tesseract.exe`,
		`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
	},
	"darwin": {
		"/opt/homebrew/bin/tesseract",
		"/usr/local/bin/tesseract",
	},
	"linux": {
		"/usr/bin/tesseract",
		"/usr/local/bin/tesseract",
	},
}

var fontCandidates = []string{
	"DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/DejaVuSans.ttf",
	`C:\Windows\Fonts\DejaVuSans.ttf`,
}

// ResolveTesseract finds the tesseract executable. A configured path must
// exist; otherwise PATH is searched, then the usual install locations.
func ResolveTesseract(configured string) (string, error) {
	if configured != "" {
		if isFile(configured) {
			return configured, nil
		}
		return "", apperr.Config("tesseract", fmt.Errorf("%w at %s", apperr.ErrNotFound, configured))
	}
	if p, err := lookPath("tesseract"); err == nil {
		return p, nil
	}
	for _, p := range tesseractCandidates[runtime.GOOS] {
		if isFile(p) {
			return p, nil
		}
	}
	return "", apperr.Config("tesseract", fmt.Errorf("executable %w on PATH", apperr.ErrNotFound))
}

// ResolveFont returns the TTF used by the PDF exporter. An empty result with
// a nil error means no font file was found and the bundled UI font is used.
func ResolveFont(configured string) (string, error) {
	if configured != "" {
		if isFile(configured) {
			return configured, nil
		}
		return "", apperr.Config("font", fmt.Errorf("%w at %s", apperr.ErrNotFound, configured))
	}
	for _, p := range fontCandidates {
		if isFile(p) {
			return p, nil
		}
	}
	return "", nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
