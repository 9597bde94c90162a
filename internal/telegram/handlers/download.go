package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/pkg/validator"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const downloadTimeout = 60 * time.Second

var secureHTTPClient = &http.Client{
	Timeout: downloadTimeout,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// Downloader fetches documents users attach in the chat
type Downloader struct {
	api     API
	client  *http.Client
	maxSize int64
}

func NewDownloader(api API, maxSize int64) *Downloader {
	return &Downloader{
		api:     api,
		client:  secureHTTPClient,
		maxSize: maxSize,
	}
}

// Download reads the whole document into memory. Documents larger than
// maxSize are rejected even when telegram reported a smaller size.
func (d *Downloader) Download(ctx context.Context, doc *tgbotapi.Document) (entity.FileData, error) {
	fileURL, err := d.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return entity.FileData{}, fmt.Errorf("get file url: %w", err)
	}

	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return entity.FileData{}, fmt.Errorf("invalid file URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return entity.FileData{}, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return entity.FileData{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return entity.FileData{}, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.FileData{}, fmt.Errorf("download file: unexpected status code %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return entity.FileData{}, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(content)) > d.maxSize {
		return entity.FileData{}, fmt.Errorf("%w: %s exceeds %d bytes", entity.ErrFileTooLarge, doc.FileName, d.maxSize)
	}

	return entity.FileData{
		Filename:  validator.SanitizeFilename(doc.FileName),
		MediaType: doc.MimeType,
		Content:   content,
	}, nil
}
