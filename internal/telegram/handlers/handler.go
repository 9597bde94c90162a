package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler kinds, one per kind of update the bot reacts to
const (
	HandlerKindCallback = "CALLBACK"
	HandlerKindText     = "TEXT"
	HandlerKindDocument = "DOCUMENT"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string // message text, or the caption of a document
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for kind-specific handlers
type Handler interface {
	// Handle processes a message of this kind
	Handle(ctx context.Context, msg *Message) error

	// GetKind returns the kind of update this handler manages
	GetKind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          string
	messageSender *MessageSender
}

// GetKind implements Handler
func (h *BaseHandler) GetKind() string {
	return h.kind
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(chatID, text, markup)
	}
}

var validKinds = map[string]bool{
	HandlerKindCallback: true,
	HandlerKindText:     true,
	HandlerKindDocument: true,
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	return validKinds[kind]
}
