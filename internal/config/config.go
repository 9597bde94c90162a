package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR,notEmpty"`
	HandlerTimeout     time.Duration `env:"SERVER_HANDLER_TIMEOUT" envDefault:"5m"` // one question may fan out to several QA calls
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// QA service the questions are forwarded to
	QAConnectorCfg QAConnectorConfig `envPrefix:"QA_"`

	// Session lifecycle and conversation recording
	SessionCfg SessionConfig `envPrefix:"SESSION_"`
	ChatCfg    ChatConfig    `envPrefix:"CHAT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only required by the bot binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	StateTTL           time.Duration `env:"STATE_TTL" envDefault:"24h"`
}

type QAConnectorConfig struct {
	HTTPClientConfig
	QueryEndpoint string `env:"QUERY_ENDPOINT" envDefault:"/dev/switchAutomation/"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	APIKey                string        `env:"API_KEY"`
	Url                   string        `env:"SERVICE_URL"`
}

// SessionConfig controls how long an idle chat session is kept in memory
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// ChatConfig controls what is recorded in the conversation
type ChatConfig struct {
	// RecordFailedExchanges appends a "No answer found" exchange when the QA call fails
	RecordFailedExchanges bool `env:"RECORD_FAILED_EXCHANGES" envDefault:"true"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"5242880"`    // 5 MiB
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE" envDefault:"26214400"`  // 25 MiB
	MaxFileCount  int   `env:"MAX_FILE_COUNT" envDefault:"10"`        // files per question
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag
	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if !cfg.EnableMocks {
		if cfg.QAConnectorCfg.Url == "" {
			errors = append(errors, "QA_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
		if cfg.QAConnectorCfg.APIKey == "" {
			errors = append(errors, "QA_API_KEY is required unless ENABLE_MOCKS is set")
		}
	}

	if cfg.QAConnectorCfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("QA_TIMEOUT must be positive, got %s", cfg.QAConnectorCfg.RequestTimeout))
	}

	if cfg.HandlerTimeout < cfg.QAConnectorCfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("SERVER_HANDLER_TIMEOUT (%s) must not be shorter than QA_TIMEOUT (%s)", cfg.HandlerTimeout, cfg.QAConnectorCfg.RequestTimeout))
	}

	if cfg.SessionCfg.TTL < time.Minute {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be at least 1m, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.FileUploadCfg.MaxFileCount < 1 || cfg.FileUploadCfg.MaxFileCount > 64 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_COUNT must be between 1 and 64, got %d", cfg.FileUploadCfg.MaxFileCount))
	}

	if cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxTotalSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE (%d) must not exceed FILE_UPLOAD_MAX_TOTAL_SIZE (%d)", cfg.FileUploadCfg.MaxFileSize, cfg.FileUploadCfg.MaxTotalSize))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot binary needs
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramCfg.UpdateTimeout < 1 {
		return fmt.Errorf("TELEGRAM_UPDATE_TIMEOUT must be positive, got %d", c.TelegramCfg.UpdateTimeout)
	}
	if c.TelegramCfg.RateLimitPerMinute < 1 || c.TelegramCfg.RateLimitBurst < 1 {
		return fmt.Errorf("TELEGRAM_RATE_LIMIT_PER_MINUTE and TELEGRAM_RATE_LIMIT_BURST must be positive")
	}
	if c.TelegramCfg.StateTTL < time.Minute {
		return fmt.Errorf("TELEGRAM_STATE_TTL must be at least 1m, got %s", c.TelegramCfg.StateTTL)
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
