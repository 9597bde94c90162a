package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futig/switch-assistant/internal/entity"
)

func sampleTranscript() *entity.Transcript {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &entity.Transcript{
		SessionID:   "0f8e2c4a-1111-2222-3333-444455556666",
		GeneratedAt: at,
		Exchanges: []entity.Exchange{
			{
				ID:         "e1",
				UserText:   `How do I run "halon" tests?`,
				Question:   "How do I run halon tests?",
				TestType:   entity.TestTypeHalon,
				Answers:    []string{"Use the halon runner."},
				SourceURLs: []string{"https://wiki.example.com/halon"},
				SessionID:  "qa-1",
				CreatedAt:  at,
			},
			{
				ID:         "e2",
				UserText:   "Explain these scripts",
				Question:   "Explain these scripts",
				TestType:   entity.TestTypeSystemStress,
				Answers:    []string{"First script loads links.", "Second script resets ports."},
				SourceURLs: []string{},
				CreatedAt:  at,
			},
			{
				ID:        "e3",
				UserText:  "Anything?",
				Question:  "Anything?",
				TestType:  entity.TestTypeHalon,
				Answers:   []string{entity.NoAnswerFound},
				Error:     "QA service request failed with status code 500: boom",
				CreatedAt: at,
			},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	for _, format := range []entity.ExportFormat{entity.FormatMarkdown, entity.FormatJSON, entity.FormatPDF, entity.FormatDOCX} {
		if _, err := f.Create(format); err != nil {
			t.Errorf("Create(%q) error = %v", format, err)
		}
	}

	if _, err := f.Create("html"); !errors.Is(err, entity.ErrInvalidFormat) {
		t.Errorf("Create(html) error = %v, want ErrInvalidFormat", err)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleTranscript())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	md := string(out)

	wants := []string{
		"# " + baseTitle,
		"Session: 0f8e2c4a-1111-2222-3333-444455556666",
		"## 1. How do I run halon tests?",
		`**You:** How do I run "halon" tests?`,
		"**Assistant:** Use the halon runner.",
		"- https://wiki.example.com/halon",
		"Document 2 of 2: Second script resets ports.",
		"> Error: QA service request failed with status code 500: boom",
	}
	for _, want := range wants {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}

	if strings.Index(md, "## 1.") > strings.Index(md, "## 2.") {
		t.Error("exchanges out of order")
	}
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&entity.Transcript{SessionID: "s"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(out), "No questions asked yet") {
		t.Errorf("unexpected empty transcript output: %s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format(sampleTranscript())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded entity.Transcript
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded.Exchanges) != 3 || decoded.Exchanges[2].Error == "" {
		t.Errorf("decoded transcript = %+v", decoded)
	}
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleTranscript())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", out[:min(len(out), 16)])
	}
}

func TestFilename(t *testing.T) {
	got := Filename(sampleTranscript(), NewMarkdownFormatter())
	if got != "transcript-0f8e2c4a-20260314-093000.md" {
		t.Errorf("Filename() = %q", got)
	}
}
