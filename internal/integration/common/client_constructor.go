package common

import (
	"github.com/futig/switch-assistant/internal/config"
	pkgHTTP "github.com/futig/switch-assistant/pkg/http"
	"go.uber.org/zap"
)

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger, extra ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
	}
	opts = append(opts, extra...)
	opts = append(opts,
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAPIKey(cfg.APIKey),
	)

	return pkgHTTP.NewConnector(connCfg, opts...)
}
