package state

import (
	"context"
	"errors"
	"time"

	"github.com/futig/switch-assistant/internal/entity"
)

var ErrStateNotFound = errors.New("chat state not found")

// ChatState maps a telegram chat to its assistant session and UI selections
type ChatState struct {
	ChatID       int64             `json:"chat_id"`
	SessionID    string            `json:"session_id,omitempty"`
	TestType     entity.TestType   `json:"test_type"`
	PendingFiles []entity.FileData `json:"-"` // documents waiting for the next question
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Storage defines the interface for chat state persistence
type Storage interface {
	Get(ctx context.Context, chatID int64) (*ChatState, error)
	Set(ctx context.Context, st *ChatState) error
	Delete(ctx context.Context, chatID int64) error
}
