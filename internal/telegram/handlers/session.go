package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/pkg/formatter"
	"github.com/futig/switch-assistant/internal/telegram/keyboard"
	"github.com/futig/switch-assistant/internal/telegram/render"
	"github.com/futig/switch-assistant/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SessionHandler runs the session level actions reachable from commands and buttons
type SessionHandler struct {
	BaseHandler
	stateManager *state.Manager
	chatUC       ChatUsecase
	keyboard     *keyboard.Builder
	formatter    *formatter.Factory
}

func NewSessionHandler(
	api API,
	stateManager *state.Manager,
	chatUC ChatUsecase,
	keyboard *keyboard.Builder,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler: BaseHandler{
			messageSender: NewMessageSender(api, logger),
		},
		stateManager: stateManager,
		chatUC:       chatUC,
		keyboard:     keyboard,
		formatter:    formatter.NewFactory(),
	}
}

// Start replaces the chat's session with a new one. The selected test type is kept.
func (h *SessionHandler) Start(ctx context.Context, chatID int64) error {
	prev, err := h.stateManager.Get(ctx, chatID)
	if err != nil {
		return err
	}
	h.endQuietly(ctx, prev.SessionID)

	session, err := h.chatUC.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	st, err := h.stateManager.Update(ctx, chatID, func(st *state.ChatState) error {
		st.SessionID = session.ID
		st.PendingFiles = nil
		return nil
	})
	if err != nil {
		return err
	}

	h.sendMessage(chatID, render.MsgWelcome, h.keyboard.TestTypeKeyboard(st.TestType))
	return nil
}

// Reset ends the session and forgets the chat
func (h *SessionHandler) Reset(ctx context.Context, chatID int64) error {
	st, err := h.stateManager.Get(ctx, chatID)
	if err != nil {
		return err
	}
	h.endQuietly(ctx, st.SessionID)

	if err := h.stateManager.Delete(ctx, chatID); err != nil {
		return err
	}

	h.sendMessage(chatID, render.MsgSessionReset, nil)
	return nil
}

// EnsureSession returns the chat's session, starting one when there is none.
// renewed is true when a new session had to be created.
func (h *SessionHandler) EnsureSession(ctx context.Context, chatID int64) (st *state.ChatState, renewed bool, err error) {
	st, err = h.stateManager.Get(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	if st.SessionID != "" {
		return st, false, nil
	}

	st, err = h.renew(ctx, chatID)
	return st, true, err
}

// renew attaches a new session to the chat without touching its other state
func (h *SessionHandler) renew(ctx context.Context, chatID int64) (*state.ChatState, error) {
	session, err := h.chatUC.StartSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	return h.stateManager.Update(ctx, chatID, func(st *state.ChatState) error {
		st.SessionID = session.ID
		return nil
	})
}

// ShowTestTypes sends the test type keyboard
func (h *SessionHandler) ShowTestTypes(ctx context.Context, chatID int64) error {
	st, err := h.stateManager.Get(ctx, chatID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(render.MsgChooseTestType, keyboard.TestTypeLabel(st.TestType))
	h.sendMessage(chatID, text, h.keyboard.TestTypeKeyboard(st.TestType))
	return nil
}

// SelectTestType stores the test type used for the chat's next questions
func (h *SessionHandler) SelectTestType(ctx context.Context, chatID int64, value string) error {
	testType, err := entity.ParseTestType(value)
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return nil
	}

	if _, err := h.stateManager.Update(ctx, chatID, func(st *state.ChatState) error {
		st.TestType = testType
		return nil
	}); err != nil {
		return err
	}

	h.sendMessage(chatID, fmt.Sprintf(render.MsgTestTypeSelected, keyboard.TestTypeLabel(testType)), nil)
	return nil
}

// ShowHistory lists the questions asked in the chat's session
func (h *SessionHandler) ShowHistory(ctx context.Context, chatID int64) error {
	st, err := h.stateManager.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if st.SessionID == "" {
		h.sendMessage(chatID, render.MsgNoHistory, nil)
		return nil
	}

	exchanges, err := h.chatUC.History(ctx, st.SessionID)
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return nil
	}

	h.sendMessage(chatID, render.FormatHistory(exchanges), nil)
	return nil
}

// ShowExportFormats sends the transcript format keyboard
func (h *SessionHandler) ShowExportFormats(ctx context.Context, chatID int64) error {
	h.sendMessage(chatID, render.MsgChooseFormat, h.keyboard.ExportKeyboard())
	return nil
}

// Export sends the conversation as a document in the requested format
func (h *SessionHandler) Export(ctx context.Context, chatID int64, format string) error {
	f, err := h.formatter.Create(entity.ExportFormat(format))
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return nil
	}

	st, err := h.stateManager.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if st.SessionID == "" {
		h.sendMessage(chatID, render.ErrEmptyTranscript, nil)
		return nil
	}

	transcript, err := h.chatUC.Transcript(ctx, st.SessionID)
	if err != nil {
		h.HandleError(ctx, chatID, err)
		return nil
	}
	if len(transcript.Exchanges) == 0 {
		h.sendMessage(chatID, render.ErrEmptyTranscript, nil)
		return nil
	}

	data, err := f.Format(transcript)
	if err != nil {
		return fmt.Errorf("format transcript: %w", err)
	}

	return h.messageSender.SendDocument(chatID, formatter.Filename(transcript, f), data)
}

// ClearFiles drops the documents waiting for the next question
func (h *SessionHandler) ClearFiles(ctx context.Context, chatID int64) error {
	if _, _, err := h.stateManager.TakePendingFiles(ctx, chatID); err != nil {
		return err
	}

	h.sendMessage(chatID, render.MsgFilesCleared, nil)
	return nil
}

func (h *SessionHandler) endQuietly(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := h.chatUC.EndSession(ctx, sessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
		ctxzap.Warn(ctx, "failed to end previous session",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
	}
}
