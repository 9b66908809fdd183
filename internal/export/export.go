// Package export serializes extracted text into Word and PDF documents.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"image-text-extractor/internal/apperr"
)

// Format identifies an export target.
type Format string

const (
	FormatWord Format = "word"
	FormatPDF  Format = "pdf"
)

// Title is the user-facing name of the format.
func (f Format) Title() string {
	switch f {
	case FormatWord:
		return "Word"
	case FormatPDF:
		return "PDF"
	default:
		return string(f)
	}
}

// Extension is the default file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatWord:
		return ".docx"
	case FormatPDF:
		return ".pdf"
	default:
		return ""
	}
}

// Exporter writes text in one document format.
type Exporter interface {
	Format() Format
	Export(w io.Writer, text string) error
}

// PrepareText trims text and rejects it when nothing is left.
func PrepareText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperr.Input(apperr.ErrEmptyText)
	}
	return trimmed, nil
}

// Save exports text to w and closes it. When either step fails and path
// names the destination, the partial file is removed.
func Save(e Exporter, w io.WriteCloser, path, text string) error {
	err := e.Export(w, text)
	if cerr := w.Close(); cerr != nil && err == nil {
		err = apperr.Export("close "+path, cerr)
	}
	if err != nil && path != "" {
		_ = os.Remove(path)
	}
	return err
}

// Registry holds one exporter per format.
type Registry struct {
	exporters map[Format]Exporter
	order     []Format
}

func NewRegistry(exporters ...Exporter) *Registry {
	r := &Registry{exporters: make(map[Format]Exporter, len(exporters))}
	for _, e := range exporters {
		if _, dup := r.exporters[e.Format()]; !dup {
			r.order = append(r.order, e.Format())
		}
		r.exporters[e.Format()] = e
	}
	return r
}

func (r *Registry) Get(f Format) (Exporter, error) {
	e, ok := r.exporters[f]
	if !ok {
		return nil, fmt.Errorf("no exporter registered for %q", f)
	}
	return e, nil
}

// Formats lists the registered formats in registration order.
func (r *Registry) Formats() []Format {
	return append([]Format(nil), r.order...)
}
