package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/feedbackrelay/internal/admin"
	"github.com/smallbiznis/feedbackrelay/internal/audit"
	"github.com/smallbiznis/feedbackrelay/internal/cache"
	"github.com/smallbiznis/feedbackrelay/internal/catalog"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/config"
	"github.com/smallbiznis/feedbackrelay/internal/directory"
	"github.com/smallbiznis/feedbackrelay/internal/draft"
	"github.com/smallbiznis/feedbackrelay/internal/feedback"
	"github.com/smallbiznis/feedbackrelay/internal/interaction"
	"github.com/smallbiznis/feedbackrelay/internal/migration"
	"github.com/smallbiznis/feedbackrelay/internal/observability"
	"github.com/smallbiznis/feedbackrelay/internal/providers"
	"github.com/smallbiznis/feedbackrelay/internal/ratelimit"
	"github.com/smallbiznis/feedbackrelay/internal/reminder"
	"github.com/smallbiznis/feedbackrelay/internal/schedule"
	"github.com/smallbiznis/feedbackrelay/internal/scheduler"
	"github.com/smallbiznis/feedbackrelay/internal/server"
	"github.com/smallbiznis/feedbackrelay/internal/slackui"
	"github.com/smallbiznis/feedbackrelay/internal/webhook"
	"github.com/smallbiznis/feedbackrelay/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(appOptions()).Run()
}

func appOptions() fx.Option {
	return fx.Options(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		cache.Module,
		ratelimit.Module,
		providers.Module,

		// Functional Domains
		schedule.Module,
		catalog.Module,
		directory.Module,
		reminder.Module,
		draft.Module,
		slackui.Module,
		feedback.Module,
		interaction.Module,
		audit.Module,
		webhook.Module,
		admin.Module,

		scheduler.Module,
		server.Module,
	)
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
