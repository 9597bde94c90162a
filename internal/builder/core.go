package builder

import (
	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/integration/qa"
	"github.com/futig/switch-assistant/internal/pkg/validator"
	"github.com/futig/switch-assistant/internal/repository"
	"github.com/futig/switch-assistant/internal/usecase/chat"
	"go.uber.org/zap"
)

// core holds the components shared by the HTTP server and the telegram bot
type core struct {
	sessionRepo   *repository.SessionMemory
	fileValidator *validator.Validator
	chatUC        *chat.ChatUsecase
}

func buildCore(cfg *config.Config, logger *zap.Logger) *core {
	sessionRepo := repository.NewSessionMemory(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval, logger)
	logger.Info("Session repository initialized",
		zap.Duration("ttl", cfg.SessionCfg.TTL),
	)

	var qaConnector chat.QAConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the QA service")
		qaConnector = qa.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the QA service",
			zap.String("url", cfg.QAConnectorCfg.Url),
		)
		qaConnector = qa.NewConnector(cfg.QAConnectorCfg, logger)
	}

	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)

	chatUC := chat.NewUsecase(
		sessionRepo,
		fileValidator,
		qaConnector,
		cfg.ChatCfg.RecordFailedExchanges,
		logger,
	)
	logger.Info("Use cases initialized")

	return &core{
		sessionRepo:   sessionRepo,
		fileValidator: fileValidator,
		chatUC:        chatUC,
	}
}
