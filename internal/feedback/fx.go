package feedback

import (
	"github.com/smallbiznis/feedbackrelay/internal/feedback/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feedback.service",
	fx.Provide(service.NewFinalizer),
	fx.Provide(service.NewProcessor),
	fx.Provide(service.NewQueue),
)
