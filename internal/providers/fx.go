package providers

import (
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	"github.com/smallbiznis/feedbackrelay/internal/providers/slack"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	ashby.Module,
	slack.Module,
)
