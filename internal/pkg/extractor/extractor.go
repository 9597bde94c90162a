// Package extractor turns uploaded documents into plain text for the QA payload.
//
// PDF text is extracted with ledongthuc/pdf (pure Go). Every other supported
// upload is treated as UTF-8 text and passed through unchanged.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/ledongthuc/pdf"
)

const (
	MediaTypePDF       = "application/pdf"
	MediaTypeText      = "text/plain"
	mediaTypeOctetData = "application/octet-stream"
)

// Extract converts document bytes of the given media type into plain text.
// PDF pages are extracted in order and joined with a newline.
func Extract(content []byte, mediaType string) (string, error) {
	if isPDF(mediaType) {
		return extractPDF(content)
	}
	return decodeText(content)
}

// ExtractFile reads an uploaded file exactly once and extracts its text.
// The upload handle is released on every return path.
func ExtractFile(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}

	mediaType := ResolveMediaType(fh.Filename, fh.Header.Get("Content-Type"))
	text, err := Extract(content, mediaType)
	if err != nil {
		return "", withFilename(err, fh.Filename)
	}

	return text, nil
}

// ExtractData extracts text from a document that was already downloaded
func ExtractData(file entity.FileData) (string, error) {
	text, err := Extract(file.Content, ResolveMediaType(file.Filename, file.MediaType))
	if err != nil {
		return "", withFilename(err, file.Filename)
	}
	return text, nil
}

// ResolveMediaType returns the declared media type, falling back to the file
// extension when the client sent nothing useful.
func ResolveMediaType(filename, declared string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != mediaTypeOctetData {
			return mt
		}
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return MediaTypePDF
	}
	return MediaTypeText
}

func isPDF(mediaType string) bool {
	return strings.EqualFold(mediaType, MediaTypePDF)
}

func decodeText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", &entity.DecodingError{Offset: firstInvalidUTF8(content)}
	}
	return string(content), nil
}

func firstInvalidUTF8(content []byte) int {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func extractPDF(content []byte) (text string, err error) {
	// ledongthuc/pdf panics on some corrupt streams instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &entity.ExtractionError{MediaType: MediaTypePDF, Err: fmt.Errorf("corrupt document: %v", r)}
		}
	}()

	if len(content) == 0 {
		return "", &entity.ExtractionError{MediaType: MediaTypePDF, Err: errors.New("empty document")}
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", &entity.ExtractionError{MediaType: MediaTypePDF, Err: err}
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &entity.ExtractionError{MediaType: MediaTypePDF, Err: fmt.Errorf("page %d: %w", i, err)}
		}

		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}

func withFilename(err error, filename string) error {
	var extractErr *entity.ExtractionError
	if errors.As(err, &extractErr) {
		extractErr.Filename = filename
		return extractErr
	}

	var decodeErr *entity.DecodingError
	if errors.As(err, &decodeErr) {
		decodeErr.Filename = filename
		return decodeErr
	}

	return err
}
