package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/switch-assistant/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(t *entity.Transcript) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	for _, line := range header(t) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}

	if len(t.Exchanges) == 0 {
		buf.WriteString("\n_No questions asked yet._\n")
		return buf.Bytes(), nil
	}

	for _, b := range blocks(t) {
		fmt.Fprintf(&buf, "\n## %s\n\n", b.heading)
		fmt.Fprintf(&buf, "_%s_\n\n", b.meta)
		fmt.Fprintf(&buf, "**You:** %s\n\n", b.user)
		for _, a := range b.answers {
			fmt.Fprintf(&buf, "**Assistant:** %s\n\n", a)
		}
		if len(b.sources) > 0 {
			buf.WriteString("**Sources:**\n\n")
			for _, s := range b.sources {
				fmt.Fprintf(&buf, "- %s\n", s)
			}
			buf.WriteString("\n")
		}
		if b.err != "" {
			fmt.Fprintf(&buf, "> Error: %s\n\n", b.err)
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
