package formatter

import (
	"encoding/json"

	"github.com/futig/switch-assistant/internal/entity"
)

const (
	jsonContentType   = "application/json"
	jsonFileExtension = ".json"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Format(t *entity.Transcript) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

func (jf *JSONFormatter) ContentType() string {
	return jsonContentType
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
