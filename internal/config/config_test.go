package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("QA_SERVICE_URL", "https://qa.example.com")
	t.Setenv("QA_API_KEY", "secret")
}

func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.QAConnectorCfg.QueryEndpoint != "/dev/switchAutomation/" {
		t.Errorf("QueryEndpoint = %q", cfg.QAConnectorCfg.QueryEndpoint)
	}
	if cfg.QAConnectorCfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %s, want 60s", cfg.QAConnectorCfg.RequestTimeout)
	}
	if cfg.SessionCfg.TTL != 2*time.Hour {
		t.Errorf("SessionCfg.TTL = %s, want 2h", cfg.SessionCfg.TTL)
	}
	if !cfg.ChatCfg.RecordFailedExchanges {
		t.Error("RecordFailedExchanges should default to true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
}

func TestParse_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("QA_QUERY_ENDPOINT", "/prod/ask")
	t.Setenv("QA_TIMEOUT", "5s")
	t.Setenv("CHAT_RECORD_FAILED_EXCHANGES", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FILE_UPLOAD_MAX_FILE_COUNT", "3")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.QAConnectorCfg.QueryEndpoint != "/prod/ask" {
		t.Errorf("QueryEndpoint = %q", cfg.QAConnectorCfg.QueryEndpoint)
	}
	if cfg.QAConnectorCfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.QAConnectorCfg.RequestTimeout)
	}
	if cfg.ChatCfg.RecordFailedExchanges {
		t.Error("RecordFailedExchanges should be false")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.FileUploadCfg.MaxFileCount != 3 {
		t.Errorf("MaxFileCount = %d", cfg.FileUploadCfg.MaxFileCount)
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{"SERVER_ADDR": ":8080", "QA_SERVICE_URL": "https://qa.example.com"},
			wantErr: "QA_API_KEY",
		},
		{
			name:    "missing service url",
			env:     map[string]string{"SERVER_ADDR": ":8080", "QA_API_KEY": "k"},
			wantErr: "QA_SERVICE_URL",
		},
		{
			name:    "file count out of range",
			env:     map[string]string{"SERVER_ADDR": ":8080", "ENABLE_MOCKS": "true", "FILE_UPLOAD_MAX_FILE_COUNT": "0"},
			wantErr: "FILE_UPLOAD_MAX_FILE_COUNT",
		},
		{
			name:    "session ttl too short",
			env:     map[string]string{"SERVER_ADDR": ":8080", "ENABLE_MOCKS": "true", "SESSION_TTL": "10s"},
			wantErr: "SESSION_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Parse()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestParse_MocksNeedNoCredentials(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("ENABLE_MOCKS", "true")

	if _, err := Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{TelegramCfg: TelegramConfig{UpdateTimeout: 60, RateLimitPerMinute: 20, RateLimitBurst: 5, StateTTL: time.Hour}}
	if err := cfg.ValidateTelegram(); err == nil {
		t.Error("expected error without bot token")
	}

	cfg.TelegramCfg.BotToken = "123:abc"
	if err := cfg.ValidateTelegram(); err != nil {
		t.Errorf("ValidateTelegram() error = %v", err)
	}

	cfg.TelegramCfg.RateLimitBurst = 0
	if err := cfg.ValidateTelegram(); err == nil {
		t.Error("expected error for zero burst")
	}
}

func TestGetEnvFile(t *testing.T) {
	tests := map[string]string{
		"prod":    ".env.prod",
		"local":   ".env.local",
		"dev":     ".env.local",
		"staging": ".env.staging",
	}
	for env, want := range tests {
		if got := getEnvFile(env); got != want {
			t.Errorf("getEnvFile(%q) = %q, want %q", env, got, want)
		}
	}
}
