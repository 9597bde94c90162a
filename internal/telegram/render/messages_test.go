package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/futig/switch-assistant/internal/entity"
)

func TestFormatExchange(t *testing.T) {
	t.Run("single answer with sources", func(t *testing.T) {
		got := FormatExchange(&entity.Exchange{
			Answers:    []string{"Run halon with -v"},
			SourceURLs: []string{"https://wiki/halon"},
		})
		if !strings.HasPrefix(got, "Run halon with -v") {
			t.Errorf("FormatExchange() = %q", got)
		}
		if !strings.Contains(got, "• https://wiki/halon") {
			t.Errorf("sources missing in %q", got)
		}
		if strings.Contains(got, "Document") {
			t.Errorf("single answer labeled as document: %q", got)
		}
	})

	t.Run("answer per document", func(t *testing.T) {
		got := FormatExchange(&entity.Exchange{Answers: []string{"first", "second"}})
		i1 := strings.Index(got, "Document 1 of 2")
		i2 := strings.Index(got, "Document 2 of 2")
		if i1 < 0 || i2 < 0 || i1 > i2 {
			t.Errorf("FormatExchange() = %q", got)
		}
	})

	t.Run("failed", func(t *testing.T) {
		got := FormatExchange(&entity.Exchange{Answers: []string{entity.NoAnswerFound}, Error: "status 500"})
		if !strings.Contains(got, "status 500") {
			t.Errorf("FormatExchange() = %q", got)
		}
	})
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory(nil); got != MsgNoHistory {
		t.Errorf("FormatHistory(nil) = %q", got)
	}

	got := FormatHistory([]entity.Exchange{
		{UserText: "first?", TestType: entity.TestTypeHalon, Answers: []string{"one"}},
		{UserText: "second?", TestType: entity.TestTypeSystemStress, Error: "boom"},
	})
	if !strings.Contains(got, "1. [halon_test] first?") || !strings.Contains(got, "2. [system_stress] second?") {
		t.Errorf("FormatHistory() = %q", got)
	}
	if !strings.Contains(got, "→ one") || !strings.Contains(got, "failed") {
		t.Errorf("FormatHistory() = %q", got)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := SplitMessage("short", 10); len(got) != 1 || got[0] != "short" {
		t.Errorf("SplitMessage() = %q", got)
	}

	text := strings.Repeat("line of text\n", 40) + strings.Repeat("é", 300)
	chunks := SplitMessage(text, 100)
	if strings.Join(chunks, "") != text {
		t.Fatal("chunks do not reassemble the text")
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 100 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Errorf("first chunk not split at a line break: %q", chunks[0])
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ErrGeneric},
		{name: "session", err: fmt.Errorf("ask: %w", entity.ErrSessionNotFound), want: ErrSessionNotFound},
		{name: "empty question", err: entity.ErrMissingField, want: ErrEmptyQuestion},
		{name: "too many files", err: entity.ErrTooManyFiles, want: ErrTooManyFiles},
		{name: "extension", err: entity.ErrInvalidExtension, want: ErrInvalidExtension},
		{name: "upstream", err: &entity.SubmitError{Block: 0, Blocks: 2, Err: &entity.APIError{StatusCode: 403}}, want: fmt.Sprintf(ErrUpstream, 403)},
		{name: "malformed", err: &entity.MalformedResponseError{Body: "<html>"}, want: ErrMalformed},
		{name: "timeout", err: &entity.TransportError{Err: context.DeadlineExceeded}, want: ErrTimeout},
		{name: "transport", err: &entity.TransportError{Err: errors.New("connection refused")}, want: ErrNetworkIssue},
		{name: "unreadable", err: &entity.DecodingError{Filename: "a.txt", Offset: 1}, want: fmt.Sprintf(ErrUnreadableFile, "a.txt")},
		{name: "other", err: errors.New("boom"), want: ErrGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %q, want %q", got, tt.want)
			}
		})
	}
}
