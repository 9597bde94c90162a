package entity

import "mime/multipart"

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// AskRequest is a question submitted through one of the front-ends.
// Files are either multipart uploads (HTTP) or already downloaded documents (Telegram).
type AskRequest struct {
	Question string                  `json:"question"`
	TestType string                  `json:"test_type"`
	Uploads  []*multipart.FileHeader `json:"-"`
	Files    []FileData              `json:"-"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

type TestTypesResponse struct {
	TestTypes []TestType `json:"test_types"`
	Default   TestType   `json:"default"`
}

type ExchangesResponse struct {
	SessionID string     `json:"session_id"`
	Exchanges []Exchange `json:"exchanges"`
}

// ErrorResponse is returned by the HTTP API for every failed request.
// StatusCode and Body carry the upstream diagnostics when the QA service failed.
type ErrorResponse struct {
	Error      string    `json:"error"`
	Message    string    `json:"message,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Body       string    `json:"body,omitempty"`
	Exchange   *Exchange `json:"exchange,omitempty"`
}
