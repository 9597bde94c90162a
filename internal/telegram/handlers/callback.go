package handlers

import (
	"context"
	"fmt"

	"github.com/futig/switch-assistant/internal/telegram/keyboard"
	"go.uber.org/zap"
)

// CallbackHandler routes inline keyboard presses
type CallbackHandler struct {
	BaseHandler
	sessions *SessionHandler
}

func NewCallbackHandler(api API, sessions *SessionHandler, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindCallback,
			messageSender: NewMessageSender(api, logger),
		},
		sessions: sessions,
	}
}

// Handle implements Handler
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	h.messageSender.AnswerCallback(msg.CallbackID, "")

	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		return err
	}

	switch cb.Action {
	case keyboard.ActionTestType:
		return h.sessions.SelectTestType(ctx, msg.ChatID, cb.Value)
	case keyboard.ActionExport:
		return h.sessions.Export(ctx, msg.ChatID, cb.Value)
	case keyboard.ActionCommand:
		switch cb.Value {
		case keyboard.CommandNewSession:
			return h.sessions.Start(ctx, msg.ChatID)
		case keyboard.CommandHistory:
			return h.sessions.ShowHistory(ctx, msg.ChatID)
		case keyboard.CommandClearFiles:
			return h.sessions.ClearFiles(ctx, msg.ChatID)
		}
	}

	return fmt.Errorf("unknown callback %q", msg.CallbackData)
}
