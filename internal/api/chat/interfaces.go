package chat

import (
	"context"

	"github.com/futig/switch-assistant/internal/entity"
)

type ChatUsecase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	Ask(ctx context.Context, sessionID string, req *entity.AskRequest) (*entity.Exchange, error)
	History(ctx context.Context, sessionID string) ([]entity.Exchange, error)
	Transcript(ctx context.Context, sessionID string) (*entity.Transcript, error)
}
