package slackui

import "go.uber.org/fx"

var Module = fx.Module("slackui",
	fx.Provide(NewRenderer),
)
