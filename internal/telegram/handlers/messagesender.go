package handlers

import (
	"fmt"

	"github.com/futig/switch-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	api    API
	logger *zap.Logger
}

// NewMessageSender creates a new MessageSender
func NewMessageSender(api API, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		api:    api,
		logger: logger,
	}
}

// Send sends a message to the specified chat. Long texts are split into
// several messages and the markup is attached to the last one.
func (s *MessageSender) Send(chatID int64, text string, markup interface{}) error {
	chunks := render.SplitMessage(text, render.MaxMessageLength)

	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if markup != nil && i == len(chunks)-1 {
			msg.ReplyMarkup = markup
		}

		if _, err := s.api.Send(msg); err != nil {
			s.logger.Error("failed to send message",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			return err
		}
	}

	return nil
}

// SendDocument uploads data as a file named filename
func (s *MessageSender) SendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})

	if _, err := s.api.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press
func (s *MessageSender) AnswerCallback(callbackID, text string) {
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.logger.Warn("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
