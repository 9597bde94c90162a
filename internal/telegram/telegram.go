// Package telegram exposes the switch automation assistant as a Telegram bot.
package telegram

import (
	"context"
	"fmt"

	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/telegram/bot"
	"github.com/futig/switch-assistant/internal/telegram/handlers"
	"github.com/futig/switch-assistant/internal/telegram/state"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	maxFileSize int64,
	storage state.Storage,
	chatUC handlers.ChatUsecase,
	validator handlers.FileValidator,
	logger *zap.Logger,
) (Bot, error) {
	stateManager := state.NewManager(storage)

	b, err := bot.New(cfg, stateManager, chatUC, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	registerHandlers(b, validator, maxFileSize, logger)

	logger.Info("telegram bot initialized successfully")

	return b, nil
}

// registerHandlers registers all handlers with the bot
func registerHandlers(b *bot.Bot, validator handlers.FileValidator, maxFileSize int64, logger *zap.Logger) {
	api := b.GetAPI()
	stateManager := b.GetStateManager()
	chatUC := b.GetChatUsecase()
	keyboard := b.GetKeyboard()
	sessions := b.GetSessionHandler()

	b.RegisterHandler(handlers.NewCallbackHandler(api, sessions, logger))

	questionHandler := handlers.NewQuestionHandler(api, stateManager, sessions, chatUC, keyboard, logger)
	b.RegisterHandler(questionHandler)

	downloader := handlers.NewDownloader(api, maxFileSize)
	b.RegisterHandler(handlers.NewDocumentHandler(api, stateManager, validator, downloader, questionHandler, keyboard, logger))

	logger.Info("telegram handlers registered",
		zap.Int("handler_count", 3),
	)
}
