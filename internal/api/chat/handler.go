package chat

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/pkg/formatter"
	"github.com/futig/switch-assistant/internal/pkg/logger"
	"github.com/futig/switch-assistant/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	formatter *formatter.Factory
	cfg       config.FileUploadConfig
}

func NewHandler(usecase ChatUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:   usecase,
		formatter: formatter.NewFactory(),
		cfg:       cfg,
	}
}

// ListTestTypes handles GET /api/test-types
func (h *Handler) ListTestTypes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.TestTypesResponse{
		TestTypes: entity.AllTestTypes(),
		Default:   entity.DefaultTestType,
	})
}

// StartSession handles POST /api/sessions - Start a new chat session
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartSession")

	session, err := h.usecase.StartSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, nil)
		return
	}

	response.Created(w, entity.StartSessionResponse{SessionID: session.ID})
}

// EndSession handles DELETE /api/sessions/{id} - Discard the session and its conversation
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "EndSession"),
	)

	if err := h.usecase.EndSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err, nil)
		return
	}

	response.NoContent(w)
}

// ListExchanges handles GET /api/sessions/{id}/exchanges
func (h *Handler) ListExchanges(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ListExchanges"),
	)

	exchanges, err := h.usecase.History(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, nil)
		return
	}

	response.Success(w, entity.ExchangesResponse{
		SessionID: sessionID,
		Exchanges: exchanges,
	})
}

// Ask handles POST /api/sessions/{id}/questions.
// Accepts a JSON body or a multipart form with repeated "files" parts.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "Ask"),
	)

	req, err := h.decodeAskRequest(w, r)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	ctxzap.Debug(ctx, "question received",
		zap.String("test_type", req.TestType),
		zap.Int("uploads", len(req.Uploads)),
	)

	exchange, err := h.usecase.Ask(ctx, sessionID, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, exchange)
		return
	}

	response.Success(w, exchange)
}

// DownloadTranscript handles GET /api/sessions/{id}/transcript?format=markdown|json|pdf|docx
func (h *Handler) DownloadTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "DownloadTranscript"),
	)

	format := entity.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}
	if !format.IsValid() {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format, expected markdown, json, pdf or docx", entity.ErrInvalidFormat)
		return
	}

	transcript, err := h.usecase.Transcript(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, nil)
		return
	}

	fmtr, err := h.formatter.Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	data, err := fmtr.Format(transcript)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format transcript", err)
		return
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("format", string(format)),
		zap.Int("exchanges", len(transcript.Exchanges)),
	)
	response.Attachment(w, formatter.Filename(transcript, fmtr), fmtr.ContentType(), data)
}

func (h *Handler) decodeAskRequest(w http.ResponseWriter, r *http.Request) (*entity.AskRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
			return nil, err
		}
		return &entity.AskRequest{
			Question: r.FormValue("question"),
			TestType: r.FormValue("test_type"),
			Uploads:  r.MultipartForm.File["files"],
		}, nil
	}

	var req entity.AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	h.respondProblem(ctx, w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}, err)
}

func (h *Handler) respondProblem(ctx context.Context, w http.ResponseWriter, status int, problem entity.ErrorResponse, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, problem.Message, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, problem.Message, zap.Int("status", status), zap.Error(err))
	}
	response.Problem(w, status, problem)
}

// handleUsecaseError maps domain errors to HTTP responses. The recorded
// exchange of a failed QA call, if any, is echoed back to the client.
func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error, exchange *entity.Exchange) {
	problem := entity.ErrorResponse{Message: err.Error(), Exchange: exchange}
	status := http.StatusInternalServerError

	var (
		apiErr       *entity.APIError
		malformedErr *entity.MalformedResponseError
		transportErr *entity.TransportError
		extractErr   *entity.ExtractionError
		decodeErr    *entity.DecodingError
	)

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidTestType),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrTooManyFiles),
		errors.Is(err, entity.ErrTotalSizeTooLarge):
		status = http.StatusBadRequest
	case errors.As(err, &extractErr), errors.As(err, &decodeErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		problem.StatusCode = apiErr.StatusCode
		problem.Body = apiErr.Body
	case errors.As(err, &malformedErr):
		status = http.StatusBadGateway
		problem.Body = malformedErr.Body
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
		if transportErr.Timeout() {
			status = http.StatusGatewayTimeout
		}
	default:
		problem.Message = "internal server error"
	}

	problem.Error = http.StatusText(status)
	h.respondProblem(ctx, w, status, problem, err)
}
