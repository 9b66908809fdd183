package export

import (
	"io"
	"strings"

	"github.com/gomutex/godocx"

	"image-text-extractor/internal/apperr"
)

// DocxExporter writes a Word document holding the whole text in a single
// paragraph. Newlines become line breaks inside it.
type DocxExporter struct{}

func NewDocxExporter() *DocxExporter {
	return &DocxExporter{}
}

func (e *DocxExporter) Format() Format { return FormatWord }

func (e *DocxExporter) Export(w io.Writer, text string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return apperr.Export("create docx", err)
	}

	p := doc.AddParagraph("")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		run := p.AddText(line)
		if i < len(lines)-1 {
			run.AddBreak(nil)
		}
	}

	if err := doc.Write(w); err != nil {
		return apperr.Export("write docx", err)
	}
	return nil
}
