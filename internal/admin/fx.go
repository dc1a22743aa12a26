package admin

import (
	"github.com/smallbiznis/feedbackrelay/internal/admin/repository"
	"github.com/smallbiznis/feedbackrelay/internal/admin/service"
	"go.uber.org/fx"
)

var Module = fx.Module("admin.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
