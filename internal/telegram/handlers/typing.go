package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegram shows a chat action for five seconds
const typingInterval = 4 * time.Second

// TypingNotifier keeps the "typing" indicator visible while a question is answered
type TypingNotifier struct {
	api      API
	chatID   int64
	done     chan struct{}
	logger   *zap.Logger
	stopOnce sync.Once
}

// NewTypingNotifier creates a new typing indicator
func NewTypingNotifier(api API, chatID int64, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		api:    api,
		chatID: chatID,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start sends the typing action now and then every typingInterval until Stop
func (t *TypingNotifier) Start(ctx context.Context) {
	t.send()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.send()
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops sending typing indicators. It is safe to call more than once.
func (t *TypingNotifier) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *TypingNotifier) send() {
	action := tgbotapi.NewChatAction(t.chatID, tgbotapi.ChatTyping)
	if _, err := t.api.Request(action); err != nil {
		t.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
