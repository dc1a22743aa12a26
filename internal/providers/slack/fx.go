package slack

import (
	"github.com/smallbiznis/feedbackrelay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.slack",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	return New(Config{
		BotToken: cfg.Slack.BotToken,
		BaseURL:  cfg.Slack.BaseURL,
		Timeout:  cfg.OutboundTimeout,
	}, log)
}
