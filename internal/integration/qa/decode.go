package qa

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/futig/switch-assistant/internal/entity"
)

// wireResponse mirrors the QA service body. Pointers tell absent or null fields apart from empty ones.
type wireResponse struct {
	Answer     *string   `json:"answer"`
	SourceURLs *[]string `json:"source_urls"`
	SessionID  *string   `json:"sessionId"`
}

// DecodeResponse parses a QA service body and fills in defaults for missing fields.
//
// The service sometimes returns the object itself and sometimes a JSON string
// containing the encoded object, so a string at the top level is decoded a
// second time. Both shapes are accepted as-is.
func DecodeResponse(body []byte) (*entity.QueryResponse, error) {
	payload := bytes.TrimSpace(body)

	if len(payload) > 0 && payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil, malformed(body, err)
		}
		payload = bytes.TrimSpace([]byte(inner))
	}

	if len(payload) == 0 || payload[0] != '{' {
		if !json.Valid(payload) {
			return nil, malformed(body, errors.New("body is not valid JSON"))
		}
		return nil, malformed(body, errors.New("body is not a JSON object"))
	}

	var wire wireResponse
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, malformed(body, err)
	}

	resp := &entity.QueryResponse{
		Answer:     entity.NoAnswerFound,
		SourceURLs: []string{entity.NoSourceURL},
		SessionID:  entity.NoSessionID,
	}
	if wire.Answer != nil {
		resp.Answer = *wire.Answer
	}
	if wire.SourceURLs != nil {
		resp.SourceURLs = *wire.SourceURLs
	}
	if wire.SessionID != nil {
		resp.SessionID = *wire.SessionID
	}

	return resp, nil
}

func malformed(body []byte, err error) error {
	return &entity.MalformedResponseError{
		Body: string(body),
		Err:  err,
	}
}
