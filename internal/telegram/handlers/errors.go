package handlers

import (
	"context"
	"errors"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/telegram/render"
	"github.com/futig/switch-assistant/internal/usecase/chat"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError maps an error to the message the user sees and the log severity.
// Problems with the user's input are warnings, failures of the QA service are errors.
func classifyHandlerError(err error) *HandlerError {
	handlerErr := &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}

	var (
		apiErr       *entity.APIError
		malformedErr *entity.MalformedResponseError
		transportErr *entity.TransportError
	)

	switch {
	case err == nil:
		handlerErr.LogMessage = "unknown error"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrSessionNotFound):
		handlerErr.LogMessage = "session not found"
		handlerErr.Severity = SeverityWarning
	case chat.IsClientError(err):
		handlerErr.LogMessage = "invalid user input"
		handlerErr.Severity = SeverityWarning
	case errors.As(err, &apiErr):
		handlerErr.LogMessage = "qa service returned an error"
	case errors.As(err, &malformedErr):
		handlerErr.LogMessage = "qa service returned a malformed response"
	case errors.As(err, &transportErr):
		handlerErr.LogMessage = "qa service unreachable"
	}

	return handlerErr
}

// HandleError provides centralized error handling for all handlers.
// It logs the error with appropriate severity and sends a user-friendly message.
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	fields := []zap.Field{
		zap.Error(handlerErr.Err),
		zap.Int64("chat_id", chatID),
	}
	if handlerErr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, handlerErr.LogMessage, fields...)
	} else {
		ctxzap.Error(ctx, handlerErr.LogMessage, fields...)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}
