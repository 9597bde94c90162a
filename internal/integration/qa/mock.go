package qa

import (
	"context"
	"fmt"

	"github.com/futig/switch-assistant/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers locally so the front-ends can run without the QA service
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Ask(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error) {
	ctxzap.Info(ctx, "[MOCK] asking QA service",
		zap.String("test_type", string(req.TestType)),
		zap.Int("file_content_length", len(req.FileContent)),
	)

	answer := fmt.Sprintf("Mock answer from %s for: %s", req.TestType, req.Question)
	if req.FileContent != "" {
		answer += fmt.Sprintf(" (attached document: %d characters)", len([]rune(req.FileContent)))
	}

	return &entity.QueryResponse{
		Answer:     answer,
		SourceURLs: []string{"https://docs.example.com/" + string(req.TestType)},
		SessionID:  "mock-session",
	}, nil
}
