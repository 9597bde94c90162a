package chat

import (
	"context"

	"github.com/futig/switch-assistant/internal/entity"
)

type QAConnector interface {
	Ask(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error)
}
