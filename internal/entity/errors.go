package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// File errors
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Validation errors
	ErrMissingField    = errors.New("required field is missing")
	ErrInvalidTestType = errors.New("invalid test type")
	ErrInvalidFormat   = errors.New("invalid format")
)

// ExtractionError reports an upload that is not a valid document of its declared type
type ExtractionError struct {
	Filename  string
	MediaType string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("extract %s text from %q: %v", e.MediaType, e.Filename, e.Err)
	}
	return fmt.Sprintf("extract %s text: %v", e.MediaType, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// DecodingError reports a text upload that is not valid UTF-8
type DecodingError struct {
	Filename string
	Offset   int
}

func (e *DecodingError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("file %q is not valid UTF-8 (invalid byte at offset %d)", e.Filename, e.Offset)
	}
	return fmt.Sprintf("content is not valid UTF-8 (invalid byte at offset %d)", e.Offset)
}

// TransportError reports a failure to reach the QA service (timeout, refused connection, DNS)
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("QA service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the transport failure was a timeout
func (e *TransportError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// APIError reports a non-200 answer of the QA service
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("QA service request failed with status code %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError reports a 200 answer whose body is not the expected JSON
type MalformedResponseError struct {
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("decode QA service response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// SubmitError aborts a multi-file submission. Block is the zero-based index of the
// file block whose call failed, or -1 when the question was sent without files.
type SubmitError struct {
	Block  int
	Blocks int
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Block < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("file %d of %d: %v", e.Block+1, e.Blocks, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
