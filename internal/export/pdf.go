package export

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"image-text-extractor/internal/apperr"
)

// Font is a TrueType font for the PDF exporter: a file path, or raw bytes
// when no file is configured.
type Font struct {
	Family string
	Path   string
	Data   []byte
}

// PDFExporter lays out one wrapped multi-cell per input line.
type PDFExporter struct {
	font     Font
	size     float64
	pageSize string
}

// NewPDFExporter builds an exporter using font at size points on pageSize
// pages (A4, A5, Letter, Legal).
func NewPDFExporter(font Font, size float64, pageSize string) *PDFExporter {
	if font.Family == "" {
		font.Family = "Body"
	}
	if size <= 0 {
		size = 12
	}
	if pageSize == "" {
		pageSize = "A4"
	}
	return &PDFExporter{font: font, size: size, pageSize: pageSize}
}

func (e *PDFExporter) Format() Format { return FormatPDF }

// lineHeight keeps the 10mm cells a 12pt font gets, scaled with the font size.
func (e *PDFExporter) lineHeight() float64 {
	return e.size * 10 / 12
}

func (e *PDFExporter) Export(w io.Writer, text string) error {
	if e.font.Path == "" && len(e.font.Data) == 0 {
		return apperr.Export("write pdf", errors.New("no Unicode font available"))
	}

	fontData := e.font.Data
	if e.font.Path != "" {
		// fpdf joins font file names onto its font dir, which breaks absolute paths.
		data, err := os.ReadFile(e.font.Path)
		if err != nil {
			return apperr.Export("load pdf font", err)
		}
		fontData = data
	}

	pdf := fpdf.New("P", "mm", e.pageSize, "")
	pdf.AddUTF8FontFromBytes(e.font.Family, "", fontData)
	pdf.AddPage()
	pdf.SetFont(e.font.Family, "", e.size)

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		pdf.MultiCell(0, e.lineHeight(), line, "", "", false)
	}

	if err := pdf.Error(); err != nil {
		return apperr.Export("write pdf", err)
	}
	if err := pdf.Output(w); err != nil {
		return apperr.Export("write pdf", err)
	}
	return nil
}
