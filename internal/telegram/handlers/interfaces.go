package handlers

import (
	"context"

	"github.com/futig/switch-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatUsecase is the chat logic shared with the HTTP API
type ChatUsecase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	Ask(ctx context.Context, sessionID string, req *entity.AskRequest) (*entity.Exchange, error)
	History(ctx context.Context, sessionID string) ([]entity.Exchange, error)
	Transcript(ctx context.Context, sessionID string) (*entity.Transcript, error)
}

// FileValidator checks attached documents before and after download
type FileValidator interface {
	ValidateFile(filename string, size int64) error
	ValidateFiles(files []entity.FileData) error
}

// API is the subset of *tgbotapi.BotAPI the handlers use
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}
