package reminder

import (
	"github.com/smallbiznis/feedbackrelay/internal/reminder/repository"
	"github.com/smallbiznis/feedbackrelay/internal/reminder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reminder.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewSelector),
	fx.Provide(service.NewTracker),
	fx.Provide(service.NewDispatcher),
)
