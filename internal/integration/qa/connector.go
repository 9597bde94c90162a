package qa

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/entity"
	"github.com/futig/switch-assistant/internal/integration/common"
	pkghttp "github.com/futig/switch-assistant/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.QAConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.QAConnectorConfig,
	logger *zap.Logger,
	opts ...pkghttp.HttpOpts,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, opts...),
		config:    cfg,
		logger:    logger,
	}
}

// Ask posts one question to the QA service.
// POST {service_url}{query_endpoint} with x-api-key; only HTTP 200 counts as success.
func (c *Connector) Ask(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error) {
	ctxzap.Debug(ctx, "asking QA service",
		zap.String("test_type", string(req.TestType)),
		zap.Int("question_length", len(req.Question)),
		zap.Int("file_content_length", len(req.FileContent)),
	)

	body, err := c.connector.DoRawRequest(ctx, http.MethodPost, c.config.QueryEndpoint, req,
		pkghttp.WithExpectedStatus(http.StatusOK),
	)
	if err != nil {
		return nil, toDomainError(err)
	}

	resp, err := DecodeResponse(body)
	if err != nil {
		ctxzap.Error(ctx, "malformed QA service response", zap.Error(err), zap.ByteString("body", body))
		return nil, err
	}

	ctxzap.Info(ctx, "QA service answered",
		zap.String("qa_session_id", resp.SessionID),
		zap.Int("source_count", len(resp.SourceURLs)),
	)

	return resp, nil
}

func toDomainError(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return &entity.APIError{StatusCode: httpErr.StatusCode, Body: httpErr.Message}
	}

	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return &entity.TransportError{Err: netErr.Err}
	}

	return err
}
