package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/switch-assistant/internal/telegram/keyboard"
	"github.com/futig/switch-assistant/internal/telegram/render"
	"github.com/futig/switch-assistant/internal/telegram/state"
	"go.uber.org/zap"
)

// DocumentHandler attaches documents to the chat's next question.
// A document sent with a caption is asked about right away.
type DocumentHandler struct {
	BaseHandler
	stateManager *state.Manager
	validator    FileValidator
	downloader   *Downloader
	questions    *QuestionHandler
	keyboard     *keyboard.Builder
}

func NewDocumentHandler(
	api API,
	stateManager *state.Manager,
	validator FileValidator,
	downloader *Downloader,
	questions *QuestionHandler,
	keyboard *keyboard.Builder,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: BaseHandler{
			kind:          HandlerKindDocument,
			messageSender: NewMessageSender(api, logger),
		},
		stateManager: stateManager,
		validator:    validator,
		downloader:   downloader,
		questions:    questions,
		keyboard:     keyboard,
	}
}

// Handle implements Handler
func (h *DocumentHandler) Handle(ctx context.Context, msg *Message) error {
	doc := msg.Document
	if doc == nil {
		return fmt.Errorf("document handler called without a document")
	}

	if err := h.validator.ValidateFile(doc.FileName, int64(doc.FileSize)); err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	file, err := h.downloader.Download(ctx, doc)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	st, err := h.stateManager.Update(ctx, msg.ChatID, func(st *state.ChatState) error {
		pending := append(st.PendingFiles[:len(st.PendingFiles):len(st.PendingFiles)], file)
		if err := h.validator.ValidateFiles(pending); err != nil {
			return err
		}
		st.PendingFiles = pending
		return nil
	})
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	if caption := strings.TrimSpace(msg.Text); caption != "" {
		return h.questions.Ask(ctx, msg.ChatID, caption)
	}

	text := fmt.Sprintf(render.MsgFileAttached, file.Filename, len(st.PendingFiles))
	h.sendMessage(msg.ChatID, text, h.keyboard.PendingFilesKeyboard())
	return nil
}
