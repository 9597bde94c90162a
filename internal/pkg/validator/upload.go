package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"

	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/entity"
)

// AllowedExtensions lists the document types the chat accepts as attachments
var AllowedExtensions = map[string]bool{
	".txt":  true,
	".json": true,
	".py":   true,
	".md":   true,
	".go":   true,
	".c":    true,
	".h":    true,
	".cpp":  true,
	".sh":   true,
	".yaml": true,
	".yml":  true,
	".pdf":  true,
}

// Validator validates questions and file uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload validates multipart uploads. An empty list is valid.
func (v *Validator) ValidateUpload(files []*multipart.FileHeader) error {
	sizes := make([]fileSize, 0, len(files))
	for _, fh := range files {
		sizes = append(sizes, fileSize{name: fh.Filename, size: fh.Size})
	}
	return v.validateSizes(sizes)
}

// ValidateFiles validates documents that were already downloaded
func (v *Validator) ValidateFiles(files []entity.FileData) error {
	sizes := make([]fileSize, 0, len(files))
	for _, f := range files {
		sizes = append(sizes, fileSize{name: f.Filename, size: int64(len(f.Content))})
	}
	return v.validateSizes(sizes)
}

// ValidateFile validates a single document, used before it is downloaded
func (v *Validator) ValidateFile(filename string, size int64) error {
	return v.validateSizes([]fileSize{{name: filename, size: size}})
}

type fileSize struct {
	name string
	size int64
}

func (v *Validator) validateSizes(files []fileSize) error {
	if len(files) > v.cfg.MaxFileCount {
		return fmt.Errorf("%w: maximum %d files allowed, got %d", entity.ErrTooManyFiles, v.cfg.MaxFileCount, len(files))
	}

	var totalSize int64
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.name))
		if !AllowedExtensions[ext] {
			return fmt.Errorf("%w: %q (allowed: %s)", entity.ErrInvalidExtension, f.name, allowedList())
		}

		if f.size > v.cfg.MaxFileSize {
			return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, f.name, f.size, v.cfg.MaxFileSize)
		}

		totalSize += f.size
	}

	if totalSize > v.cfg.MaxTotalSize {
		return fmt.Errorf("%w: total size is %d bytes (max %d)", entity.ErrTotalSizeTooLarge, totalSize, v.cfg.MaxTotalSize)
	}

	return nil
}

func allowedList() string {
	exts := make([]string, 0, len(AllowedExtensions))
	for ext := range AllowedExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// SanitizeFilename sanitizes a filename for use in a Content-Disposition header
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"\"", "",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
