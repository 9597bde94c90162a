package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/telegram/keyboard"
	"github.com/futig/switch-assistant/internal/telegram/render"
	"github.com/futig/switch-assistant/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QuestionHandler sends text messages to the assistant together with the pending documents
type QuestionHandler struct {
	BaseHandler
	api          API
	stateManager *state.Manager
	sessions     *SessionHandler
	chatUC       ChatUsecase
	keyboard     *keyboard.Builder
	logger       *zap.Logger
}

func NewQuestionHandler(
	api API,
	stateManager *state.Manager,
	sessions *SessionHandler,
	chatUC ChatUsecase,
	keyboard *keyboard.Builder,
	logger *zap.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindText,
			messageSender: NewMessageSender(api, logger),
		},
		api:          api,
		stateManager: stateManager,
		sessions:     sessions,
		chatUC:       chatUC,
		keyboard:     keyboard,
		logger:       logger,
	}
}

// Handle implements Handler
func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	return h.Ask(ctx, msg.ChatID, msg.Text)
}

// Ask submits the question with every pending document and replies with the answer
func (h *QuestionHandler) Ask(ctx context.Context, chatID int64, question string) error {
	st, renewed, err := h.sessions.EnsureSession(ctx, chatID)
	if err != nil {
		return err
	}
	if renewed {
		ctxzap.Info(ctx, "session started for chat", zap.Int64("chat_id", chatID), zap.String("session_id", st.SessionID))
	}

	files, st, err := h.stateManager.TakePendingFiles(ctx, chatID)
	if err != nil {
		return err
	}

	typing := NewTypingNotifier(h.api, chatID, h.logger)
	typing.Start(ctx)
	defer typing.Stop()

	req := &entity.AskRequest{
		Question: question,
		TestType: string(st.TestType),
		Files:    files,
	}

	exchange, err := h.chatUC.Ask(ctx, st.SessionID, req)
	if errors.Is(err, entity.ErrSessionNotFound) {
		// the session idled out while the chat state was still alive
		st, err = h.sessions.renew(ctx, chatID)
		if err != nil {
			return err
		}
		h.sendMessage(chatID, render.MsgSessionRenewed, nil)
		exchange, err = h.chatUC.Ask(ctx, st.SessionID, req)
	}

	if err != nil {
		h.HandleError(ctx, chatID, err)
		return nil
	}

	if err := h.messageSender.Send(chatID, render.FormatExchange(exchange), h.keyboard.AnswerKeyboard()); err != nil {
		return fmt.Errorf("send answer: %w", err)
	}
	return nil
}
