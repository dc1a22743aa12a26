package config

import "go.uber.org/fx"

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewRuntimeConfigHolder),
	fx.Invoke(func(cfg Config) error { return cfg.Validate() }),
)
