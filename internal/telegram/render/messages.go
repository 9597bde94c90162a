package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/futig/switch-assistant/internal/entity"
)

const (
	MsgWelcome = `👋 Hi! I answer questions about switch automation tests.

Pick the test type your question is about, then just type the question.
You can attach .txt, .py, .md, .yaml or .pdf files first and they will be sent along with your next question.`

	MsgHelp = `🤖 Commands:

/start - start a new session
/type - choose the test type
/history - show this session's questions and answers
/export - download the conversation
/reset - end the session and forget attachments
/help - show this help`

	MsgTestTypeSelected = "✅ Test type: %s"
	MsgChooseTestType   = "Choose the test type (current: %s):"
	MsgSessionReset     = "🔄 Session ended. Send /start to begin a new one."
	MsgSessionRenewed   = "⌛ Your previous session expired, a new one was started."
	MsgFileAttached     = "📎 Attached %s (%d file(s) pending). Now send your question."
	MsgFilesCleared     = "🗑 Attachments removed."
	MsgNoHistory        = "No questions asked in this session yet."
	MsgChooseFormat     = "Choose the transcript format:"
	MsgProcessing       = "⏳ Working on it..."
	MsgUnknownCommand   = "❓ Unknown command. See /help"
	MsgUnsupportedInput = "I can only handle text questions and documents."
)

const (
	ErrGeneric            = "❌ Something went wrong. Please try again or send /start"
	ErrTimeout            = "⏱ The assistant took too long to answer. Please try again."
	ErrNetworkIssue       = "🌐 Could not reach the assistant service. Please try again later."
	ErrServiceUnavailable = "🚫 The assistant service is temporarily unavailable."
	ErrUpstream           = "❌ The assistant service returned an error (status %d)."
	ErrMalformed          = "❌ The assistant service returned an unreadable answer."
	ErrSessionNotFound    = "❌ Session not found. Send /start"
	ErrEmptyQuestion      = "✏️ Please type a question."
	ErrInvalidTestType    = "❌ Unknown test type. Use /type to choose one."
	ErrFileTooLarge       = "📦 The file is too large."
	ErrTooManyFiles       = "📦 Too many attachments. Send your question or remove them."
	ErrInvalidExtension   = "📄 This file type is not supported."
	ErrUnreadableFile     = "📄 Could not read %s."
	ErrEmptyTranscript    = "Nothing to export yet."
	ErrUnknownFormat      = "❌ Unknown export format."
	ErrRateLimited        = "⏳ Too many messages. Please wait a moment."
	ErrRateLimitedAgain   = "⏳ Still too many messages. Please wait a minute."
)

// telegram rejects messages longer than this many characters
const MaxMessageLength = 4096

// FormatExchange renders one answered question
func FormatExchange(ex *entity.Exchange) string {
	var sb strings.Builder

	if ex.Failed() {
		sb.WriteString("⚠️ No answer: ")
		sb.WriteString(ex.Error)
		return sb.String()
	}

	for i, answer := range ex.Answers {
		if len(ex.Answers) > 1 {
			fmt.Fprintf(&sb, "📄 Document %d of %d\n", i+1, len(ex.Answers))
		}
		sb.WriteString(answer)
		sb.WriteString("\n\n")
	}

	if len(ex.SourceURLs) > 0 {
		sb.WriteString("🔗 Sources:\n")
		for _, u := range ex.SourceURLs {
			sb.WriteString("• ")
			sb.WriteString(u)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

// FormatHistory renders the questions of a session with a short answer preview
func FormatHistory(exchanges []entity.Exchange) string {
	if len(exchanges) == 0 {
		return MsgNoHistory
	}

	var sb strings.Builder
	for i, ex := range exchanges {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, ex.TestType, ex.UserText)
		if ex.Failed() {
			sb.WriteString("   ⚠️ failed\n")
			continue
		}
		if len(ex.Answers) > 0 {
			sb.WriteString("   → ")
			sb.WriteString(truncate(ex.Answers[0], 200))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

// SplitMessage breaks text into chunks telegram accepts, preferring line breaks
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	var (
		apiErr       *entity.APIError
		malformedErr *entity.MalformedResponseError
		transportErr *entity.TransportError
		extractErr   *entity.ExtractionError
		decodeErr    *entity.DecodingError
	)

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, entity.ErrMissingField):
		return ErrEmptyQuestion
	case errors.Is(err, entity.ErrInvalidTestType):
		return ErrInvalidTestType
	case errors.Is(err, entity.ErrInvalidFormat):
		return ErrUnknownFormat
	case errors.Is(err, entity.ErrFileTooLarge), errors.Is(err, entity.ErrTotalSizeTooLarge):
		return ErrFileTooLarge
	case errors.Is(err, entity.ErrTooManyFiles):
		return ErrTooManyFiles
	case errors.Is(err, entity.ErrInvalidExtension):
		return ErrInvalidExtension
	case errors.As(err, &extractErr):
		return fmt.Sprintf(ErrUnreadableFile, extractErr.Filename)
	case errors.As(err, &decodeErr):
		return fmt.Sprintf(ErrUnreadableFile, decodeErr.Filename)
	case errors.As(err, &apiErr):
		return fmt.Sprintf(ErrUpstream, apiErr.StatusCode)
	case errors.As(err, &malformedErr):
		return ErrMalformed
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
