package formatter

import (
	"bytes"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(t *entity.Transcript) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(baseTitle)

	for _, line := range header(t) {
		doc.AddParagraph().AddRun().AddText(line)
	}

	for _, b := range blocks(t) {
		heading := doc.AddParagraph()
		heading.SetStyle("Heading2")
		heading.AddRun().AddText(b.heading)

		meta := doc.AddParagraph().AddRun()
		meta.Properties().SetItalic(true)
		meta.AddText(b.meta)

		addLabeled(doc, "You: ", b.user)
		for _, a := range b.answers {
			addLabeled(doc, "Assistant: ", a)
		}
		for _, s := range b.sources {
			addLabeled(doc, "Source: ", s)
		}
		if b.err != "" {
			addLabeled(doc, "Error: ", b.err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addLabeled(doc *document.Document, label, text string) {
	par := doc.AddParagraph()
	labelRun := par.AddRun()
	labelRun.Properties().SetBold(true)
	labelRun.AddText(label)
	par.AddRun().AddText(text)
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
