package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/switch-assistant/internal/entity"
)

const baseTitle = "Switch Automation Assistant"

type Formatter interface {
	Format(t *entity.Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

// Filename builds the download name of a transcript export
func Filename(t *entity.Transcript, f Formatter) string {
	id := t.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("transcript-%s-%s%s", id, t.GeneratedAt.Format("20060102-150405"), f.FileExtension())
}

// exchangeBlock is the format independent view of one exchange
type exchangeBlock struct {
	heading string
	meta    string
	user    string
	answers []string
	sources []string
	err     string
}

func blocks(t *entity.Transcript) []exchangeBlock {
	out := make([]exchangeBlock, 0, len(t.Exchanges))
	for i, e := range t.Exchanges {
		b := exchangeBlock{
			heading: fmt.Sprintf("%d. %s", i+1, e.Question),
			meta:    fmt.Sprintf("Test type: %s, asked at %s", e.TestType, e.CreatedAt.Format("2006-01-02 15:04:05")),
			user:    e.UserText,
			err:     e.Error,
		}

		if len(e.Answers) == 1 {
			b.answers = []string{e.Answers[0]}
		} else {
			for j, a := range e.Answers {
				b.answers = append(b.answers, fmt.Sprintf("Document %d of %d: %s", j+1, len(e.Answers), a))
			}
		}

		for _, u := range e.SourceURLs {
			if strings.TrimSpace(u) != "" {
				b.sources = append(b.sources, u)
			}
		}

		out = append(out, b)
	}
	return out
}

func header(t *entity.Transcript) []string {
	return []string{
		"Session: " + t.SessionID,
		"Generated: " + t.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		fmt.Sprintf("Exchanges: %d", len(t.Exchanges)),
	}
}
