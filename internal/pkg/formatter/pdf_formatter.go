package formatter

import (
	"bytes"
	"os"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In the container the font is copied next to the binary
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path for `go run` from the repo root
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}

	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}

	return ""
}

func (pf *PDFFormatter) Format(t *entity.Transcript) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(baseTitle, true)
	pdf.AddPage()

	// Without the bundled font fall back to a core font, which only covers cp1252
	fontName := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		pdf.AddUTF8Font(pdfFontName, "I", fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, tr(baseTitle))
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 10)
	for _, line := range header(t) {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}

	_, lineHeight := pdf.GetFontSize()
	for _, b := range blocks(t) {
		pdf.Ln(6)

		pdf.SetFont(fontName, "B", 13)
		pdf.MultiCell(0, 7, tr(b.heading), "", "", false)

		pdf.SetFont(fontName, "I", 9)
		pdf.MultiCell(0, 5, tr(b.meta), "", "", false)

		pdf.SetFont(fontName, "", 11)
		_, lineHeight = pdf.GetFontSize()
		pdf.MultiCell(0, lineHeight*1.5, tr("You: "+b.user), "", "", false)
		for _, a := range b.answers {
			pdf.MultiCell(0, lineHeight*1.5, tr("Assistant: "+a), "", "", false)
		}
		for _, s := range b.sources {
			pdf.MultiCell(0, lineHeight*1.5, tr("Source: "+s), "", "", false)
		}
		if b.err != "" {
			pdf.MultiCell(0, lineHeight*1.5, tr("Error: "+b.err), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
