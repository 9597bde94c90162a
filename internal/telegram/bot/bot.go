package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/telegram/handlers"
	"github.com/futig/switch-assistant/internal/telegram/keyboard"
	"github.com/futig/switch-assistant/internal/telegram/middleware"
	"github.com/futig/switch-assistant/internal/telegram/render"
	"github.com/futig/switch-assistant/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	stateManager *state.Manager
	chatUC       handlers.ChatUsecase
	keyboard     *keyboard.Builder
	sender       *handlers.MessageSender
	sessions     *handlers.SessionHandler
	handlers     map[string]handlers.Handler
	pipeline     middleware.HandlerFunc
	logger       *zap.Logger
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	stateManager *state.Manager,
	chatUC handlers.ChatUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	kb := keyboard.NewBuilder()
	bot := &Bot{
		api:          api,
		cfg:          cfg,
		stateManager: stateManager,
		chatUC:       chatUC,
		keyboard:     kb,
		sender:       handlers.NewMessageSender(api, logger),
		sessions:     handlers.NewSessionHandler(api, stateManager, chatUC, kb, logger),
		handlers:     make(map[string]handlers.Handler),
		logger:       logger,
		stopChan:     make(chan struct{}),
	}

	// outermost first
	bot.pipeline = middleware.Chain(bot.handleUpdate,
		middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewRecoveryMiddleware(logger, api),
	)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates, each in its own goroutine
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.pipeline(u)
			}(update)
		}
	}
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		b.dispatch(ctx, handlers.HandlerKindCallback, newCallbackMessage(update.CallbackQuery))
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Document != nil:
		b.dispatch(ctx, handlers.HandlerKindDocument, newMessage(update.Message))
	case update.Message != nil && strings.TrimSpace(update.Message.Text) != "":
		b.dispatch(ctx, handlers.HandlerKindText, newMessage(update.Message))
	case update.Message != nil:
		b.sendText(update.Message.Chat.ID, render.MsgUnsupportedInput)
	}
}

func (b *Bot) dispatch(ctx context.Context, kind string, msg *handlers.Message) {
	handler, exists := b.handlers[kind]
	if !exists {
		ctxzap.Warn(ctx, "no handler for update kind", zap.String("kind", kind))
		b.sendText(msg.ChatID, render.ErrGeneric)
		return
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
	))

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.String("kind", kind),
		)
		b.sendText(msg.ChatID, render.ErrGeneric)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("chat_id", chatID),
	)

	var err error
	switch command {
	case "start":
		err = b.sessions.Start(ctx, chatID)
	case "help":
		b.sendText(chatID, render.MsgHelp)
	case "type":
		err = b.sessions.ShowTestTypes(ctx, chatID)
	case "history":
		err = b.sessions.ShowHistory(ctx, chatID)
	case "export":
		err = b.sessions.ShowExportFormats(ctx, chatID)
	case "reset":
		err = b.sessions.Reset(ctx, chatID)
	default:
		b.sendText(chatID, render.MsgUnknownCommand)
	}

	if err != nil {
		ctxzap.Error(ctx, "command failed",
			zap.Error(err),
			zap.String("command", command),
		)
		b.sendText(chatID, render.ErrGeneric)
	}
}

func newMessage(m *tgbotapi.Message) *handlers.Message {
	msg := &handlers.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Document:  m.Document,
	}
	if m.From != nil {
		msg.UserID = m.From.ID
	}
	if m.Document != nil {
		msg.Text = m.Caption
	}
	return msg
}

func newCallbackMessage(q *tgbotapi.CallbackQuery) *handlers.Message {
	return &handlers.Message{
		ChatID:       q.Message.Chat.ID,
		UserID:       q.From.ID,
		MessageID:    q.Message.MessageID,
		CallbackData: q.Data,
		CallbackID:   q.ID,
	}
}

// sendError sends a plain message, logging send failures
func (b *Bot) sendText(chatID int64, text string) {
	if err := b.sender.Send(chatID, text, nil); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// RegisterHandler registers a handler for an update kind
func (b *Bot) RegisterHandler(handler handlers.Handler) {
	kind := handler.GetKind()

	if !handlers.IsValidKind(kind) {
		b.logger.Fatal("invalid handler kind",
			zap.String("kind", kind),
		)
	}

	b.handlers[kind] = handler
	b.logger.Info("handler registered",
		zap.String("kind", kind),
	)
}

// GetAPI returns the bot API instance (for handlers)
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

// GetStateManager returns the state manager (for handlers)
func (b *Bot) GetStateManager() *state.Manager {
	return b.stateManager
}

// GetKeyboard returns the keyboard builder (for handlers)
func (b *Bot) GetKeyboard() *keyboard.Builder {
	return b.keyboard
}

// GetChatUsecase returns the chat usecase (for handlers)
func (b *Bot) GetChatUsecase() handlers.ChatUsecase {
	return b.chatUC
}

// GetSessionHandler returns the handler behind the session commands
func (b *Bot) GetSessionHandler() *handlers.SessionHandler {
	return b.sessions
}
