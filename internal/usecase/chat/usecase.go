package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/pkg/extractor"
	"github.com/futig/switch-assistant/internal/pkg/logger"
	"github.com/futig/switch-assistant/internal/pkg/sanitizer"
	"github.com/futig/switch-assistant/internal/pkg/validator"
	"github.com/futig/switch-assistant/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase implements the chat session business logic
type ChatUsecase struct {
	sessionRepo  repository.SessionRepository
	validator    *validator.Validator
	qaConnector  QAConnector
	recordFailed bool
	logger       *zap.Logger
}

// NewUsecase creates a new chat use case.
// recordFailed controls whether a failed QA call still leaves a
// "No answer found" exchange in the conversation.
func NewUsecase(
	sessionRepo repository.SessionRepository,
	validator *validator.Validator,
	qaConnector QAConnector,
	recordFailed bool,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		sessionRepo:  sessionRepo,
		validator:    validator,
		qaConnector:  qaConnector,
		recordFailed: recordFailed,
		logger:       logger,
	}
}

// StartSession creates a session with an empty conversation
func (uc *ChatUsecase) StartSession(ctx context.Context) (*entity.Session, error) {
	session := entity.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}

	created, err := uc.sessionRepo.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "session started", zap.String("session_id", created.ID))
	return created, nil
}

// EndSession discards the session and its conversation
func (uc *ChatUsecase) EndSession(ctx context.Context, sessionID string) error {
	if err := uc.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	ctxzap.Info(ctx, "session ended", zap.String("session_id", sessionID))
	return nil
}

// Ask sanitizes the question, extracts the attachments, submits everything
// to the QA service and records the exchange in the session's conversation.
//
// When the QA call fails and failed exchanges are recorded, the recorded
// placeholder exchange is returned together with the error.
func (uc *ChatUsecase) Ask(ctx context.Context, sessionID string, req *entity.AskRequest) (*entity.Exchange, error) {
	ctx = logger.WithAction(ctx, "ask")
	ctx = logger.AddFields(ctx, zap.String("session_id", sessionID))

	store, err := uc.sessionRepo.Conversation(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if err := uc.validator.ValidateAsk(req); err != nil {
		return nil, fmt.Errorf("validate question: %w", err)
	}

	testType, err := entity.ParseTestType(req.TestType)
	if err != nil {
		return nil, err
	}

	question := sanitizer.Question(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty after sanitizing", entity.ErrMissingField)
	}

	fileTexts, err := uc.extractFiles(req)
	if err != nil {
		return nil, err
	}

	if err := uc.sessionRepo.Touch(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	ctxzap.Info(ctx, "submitting question",
		zap.String("test_type", string(testType)),
		zap.Int("files", len(fileTexts)),
	)

	exchange := entity.Exchange{
		ID:       uuid.New().String(),
		UserText: req.Question,
		Question: question,
		TestType: testType,
	}

	result, err := uc.Submit(ctx, question, testType, fileTexts)
	if err != nil {
		if !uc.recordFailed {
			return nil, err
		}

		exchange.Answers = []string{entity.NoAnswerFound}
		exchange.SourceURLs = []string{}
		exchange.SessionID = entity.NoSessionID
		exchange.Error = err.Error()
		exchange.CreatedAt = time.Now()
		store.Append(exchange)

		return &exchange, err
	}

	exchange.Answers = result.Answers
	exchange.SourceURLs = result.SourceURLs
	exchange.SessionID = result.SessionID
	exchange.CreatedAt = time.Now()
	store.Append(exchange)

	ctxzap.Info(ctx, "question answered",
		zap.String("exchange_id", exchange.ID),
		zap.Int("answers", len(exchange.Answers)),
	)

	return &exchange, nil
}

// History returns the session's exchanges in the order they happened
func (uc *ChatUsecase) History(ctx context.Context, sessionID string) ([]entity.Exchange, error) {
	store, err := uc.sessionRepo.Conversation(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return store.All(), nil
}

// Transcript returns a snapshot of the conversation for export
func (uc *ChatUsecase) Transcript(ctx context.Context, sessionID string) (*entity.Transcript, error) {
	exchanges, err := uc.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &entity.Transcript{
		SessionID:   sessionID,
		Exchanges:   exchanges,
		GeneratedAt: time.Now(),
	}, nil
}

func (uc *ChatUsecase) extractFiles(req *entity.AskRequest) ([]string, error) {
	texts := make([]string, 0, len(req.Uploads)+len(req.Files))

	for _, fh := range req.Uploads {
		text, err := extractor.ExtractFile(fh)
		if err != nil {
			return nil, fmt.Errorf("extract upload: %w", err)
		}
		texts = append(texts, text)
	}

	for _, f := range req.Files {
		text, err := extractor.ExtractData(f)
		if err != nil {
			return nil, fmt.Errorf("extract document: %w", err)
		}
		texts = append(texts, text)
	}

	return texts, nil
}

// IsClientError reports whether err was caused by the request itself
// rather than by the QA service.
func IsClientError(err error) bool {
	var extractErr *entity.ExtractionError
	var decodeErr *entity.DecodingError

	return errors.Is(err, entity.ErrMissingField) ||
		errors.Is(err, entity.ErrInvalidTestType) ||
		errors.Is(err, entity.ErrInvalidExtension) ||
		errors.Is(err, entity.ErrFileTooLarge) ||
		errors.Is(err, entity.ErrTooManyFiles) ||
		errors.Is(err, entity.ErrTotalSizeTooLarge) ||
		errors.As(err, &extractErr) ||
		errors.As(err, &decodeErr)
}
