package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/switch-assistant/internal/api"
	chatapi "github.com/futig/switch-assistant/internal/api/chat"
	"github.com/futig/switch-assistant/internal/config"
	"github.com/futig/switch-assistant/internal/telegram"
	"github.com/futig/switch-assistant/internal/telegram/state"
	"go.uber.org/zap"
)

// added to the handler timeout for the server's write timeout
const writeTimeoutMargin = 15 * time.Second

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	c := buildCore(cfg, logger)

	chatHandler := chatapi.NewHandler(c.chatUC, cfg.FileUploadCfg)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(chatHandler, logger, api.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		HandlerTimeout:     cfg.HandlerTimeout,
	})
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HandlerTimeout + writeTimeoutMargin,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, fmt.Errorf("invalid telegram configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	c := buildCore(cfg, logger)

	bot, err := telegram.NewBot(
		&cfg.TelegramCfg,
		cfg.FileUploadCfg.MaxFileSize,
		state.NewMemoryStorage(cfg.TelegramCfg.StateTTL),
		c.chatUC,
		c.fileValidator,
		logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}
