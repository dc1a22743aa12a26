package ashby

import (
	"github.com/smallbiznis/feedbackrelay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.ashby",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Client {
	return New(Config{
		APIKey:  cfg.Ashby.APIKey,
		BaseURL: cfg.Ashby.BaseURL,
		Timeout: cfg.OutboundTimeout,
	}, log)
}
