package tenant

import (
	"github.com/shopyard/shopyard/internal/tenant/repository"
	"github.com/shopyard/shopyard/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
